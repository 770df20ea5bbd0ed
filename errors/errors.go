package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrGroupNotFound   = fmt.Errorf("group not found")
	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrSessionClosed   = fmt.Errorf("session closed")
)
