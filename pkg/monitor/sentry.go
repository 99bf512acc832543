package monitor

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/d60-Lab/marketplace/config"
)

// Init 初始化 sentry；DSN 为空时不启用
func Init(cfg config.SentryConfig, release string) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Flush 退出前发送缓冲事件
func Flush() {
	sentry.Flush(2 * time.Second)
}
