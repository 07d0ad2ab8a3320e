package util

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// IsNil 同時檢查介面的型別與值
// typed nil pointer 也會回傳 true
func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}

	switch reflect.TypeOf(i).Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Slice, reflect.Func, reflect.Interface:
		return reflect.ValueOf(i).IsNil()
	}

	return false
}

// HasImplementation 檢查依賴是否有具體實體值
func HasImplementation(i interface{}) bool {
	if IsNil(i) {
		return false
	}
	return !reflect.ValueOf(i).IsZero()
}

// NewRequestID 產生 command id 與 Idempotency-Key 共用的識別碼
func NewRequestID() string {
	return uuid.New().String()
}

// FirstNonBlank 回傳第一個去除空白後非空的值
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
