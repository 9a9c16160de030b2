package wssession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignDeterministic(t *testing.T) {
	a := sign("secret", "1714560000000")
	b := sign("secret", "1714560000000")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	// 不同密钥或载荷产生不同签名
	assert.NotEqual(t, a, sign("other", "1714560000000"))
	assert.NotEqual(t, a, sign("secret", "1714560000001"))
}

func TestAuthHeader(t *testing.T) {
	now := time.UnixMilli(1714560000000)
	header := authHeader(&Credentials{APIKey: "key-1", SecretKey: "secret"}, now)

	assert.Equal(t, "key-1", header.Get(apiKeyHeader))
	assert.Equal(t, "1714560000000", header.Get(timestampHeader))
	assert.Equal(t, sign("secret", "1714560000000"), header.Get(signatureHeader))
}
