package wssession

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// 握手认证请求头
const (
	apiKeyHeader    = "X-API-KEY"
	timestampHeader = "X-TIMESTAMP"
	signatureHeader = "X-SIGNATURE"
)

// Credentials 会话级认证凭据
type Credentials struct {
	APIKey    string
	SecretKey string
}

// sign 对载荷做 HMAC-SHA256 签名, 十六进制编码
func sign(secretKey, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return fmt.Sprintf("%x", mac.Sum(nil))
}

// authHeader 构造握手认证头, 签名对象是毫秒时间戳
func authHeader(creds *Credentials, now time.Time) http.Header {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	header := http.Header{}
	header.Set(apiKeyHeader, creds.APIKey)
	header.Set(timestampHeader, ts)
	header.Set(signatureHeader, sign(creds.SecretKey, ts))
	return header
}
