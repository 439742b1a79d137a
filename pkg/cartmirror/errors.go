package cartmirror

import "errors"

var (
	ErrNetworkError    = errors.New("cart mirror: network error")
	ErrRejected        = errors.New("cart mirror: request rejected")
	ErrServerError     = errors.New("cart mirror: server error")
	ErrInvalidConfig   = errors.New("cart mirror: invalid config")
	ErrPublisherClosed = errors.New("cart mirror: publisher closed")
)
