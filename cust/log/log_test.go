package center

import (
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
)

type captureLogger struct {
	entries []struct {
		Level   log.Level
		Keyvals []interface{}
	}
}

func (c *captureLogger) Log(level log.Level, keyvals ...interface{}) error {
	c.entries = append(c.entries, struct {
		Level   log.Level
		Keyvals []interface{}
	}{level, keyvals})
	return nil
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := &captureLogger{}
	b := &captureLogger{}
	multi := newMultiLogger(a, b)

	err := multi.Log(log.LevelInfo, "msg", "hello")
	assert.Nil(t, err)
	assert.Len(t, a.entries, 1)
	assert.Len(t, b.entries, 1)
	assert.Equal(t, log.LevelInfo, a.entries[0].Level)
}

func TestNewLoggerNonProduction(t *testing.T) {
	// 非生产环境只挂stdout, 不连Redis
	multi := NewLogger("DEV", "ems", "", "", 0)
	assert.NotNil(t, multi)
	assert.Len(t, multi.loggers, 1)
}

func TestLevelToString(t *testing.T) {
	tt := map[log.Level]string{
		log.LevelDebug: "DEBUG",
		log.LevelInfo:  "INFO",
		log.LevelWarn:  "WARN",
		log.LevelError: "ERROR",
		log.LevelFatal: "UNKNOWN",
	}
	for level, want := range tt {
		assert.Equal(t, want, levelToString(level))
	}
}
