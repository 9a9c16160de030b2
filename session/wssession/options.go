package wssession

import (
	"github.com/go-kratos/kratos/v2/log"
)

type Option func(*options)

type options struct {
	logger *log.Helper
	// errorHandler 连接异常的回调
	errorHandler func(err error)
	// creds 非 nil 时握手附带签名认证头
	creds *Credentials
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.NewHelper(logger)
	}
}

func WithErrorHandler(h func(err error)) Option {
	return func(o *options) {
		o.errorHandler = h
	}
}

func WithCredentials(apiKey, secretKey string) Option {
	return func(o *options) {
		o.creds = &Credentials{
			APIKey:    apiKey,
			SecretKey: secretKey,
		}
	}
}
