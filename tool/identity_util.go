package tool

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContentKey 对若干字段拼接求哈希，字段间插入分隔符避免拼接歧义
func ContentKey(parts ...string) string {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0x00})
	}
	return hex.EncodeToString(h.Sum(nil))
}
