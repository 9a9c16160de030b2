package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fields 是消息的命名字段集合
// 协议发送的是部分更新, 不存在的字段不等于零值, 取值前必须判断存在性
type Fields map[string]interface{}

// Has 判断字段是否存在
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// String 取字符串字段
func (f Fields) String(name string) (string, bool) {
	v, ok := f[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int64 取整型字段
func (f Fields) Int64(name string) (int64, bool) {
	v, ok := f[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// Decimal 取数值字段, 接受字符串编码的数值
func (f Fields) Decimal(name string) (decimal.Decimal, bool) {
	v, ok := f[name]
	if !ok {
		return decimal.Zero, false
	}
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// Time 取时间字段
func (f Fields) Time(name string) (time.Time, bool) {
	v, ok := f[name]
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case int64:
		return time.UnixMilli(t), true
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
	return time.Time{}, false
}
