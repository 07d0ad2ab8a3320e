package api

import (
	"errors"
	"fmt"
)

type APIError error

// ErrTransport 網路錯誤, 非 JSON 回應, 或 GET 回傳非 2xx
var ErrTransport APIError = errors.New("transport failure")

// RejectionError server 回應可解析但 success 為 false
type RejectionError struct {
	Op      string
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

func IsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

func transportErr(op string, cause error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrTransport, cause)
}
