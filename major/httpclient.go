package major

import (
	"audience-sync-service/conf"
	"net/http"
	"time"
)

var httpClient *http.Client

func InitHttpConfig() {
	timeout := conf.ApiTimeout
	if timeout == 0 {
		timeout = 30
	}
	httpClient = &http.Client{
		Timeout: time.Duration(timeout) * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        64,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func GetHttpClient() *http.Client {
	if httpClient != nil {
		return httpClient
	}
	return nil
}
