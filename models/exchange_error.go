package models

import "fmt"

// ExchangeError is a rejection reported by the exchange. Code and Message are
// passed through exactly as received.
type ExchangeError struct {
	Code    int64
	Message string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("<APIError> code=%d, msg=%s", e.Code, e.Message)
}
