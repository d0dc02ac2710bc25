package respond

const (
	HttpsCodeSuccess = 0
	HttpsCodeError   = -1

	RespMessageSuccess = "success"
)
