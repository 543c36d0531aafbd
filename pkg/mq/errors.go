package mq

// TempError marks handler failures worth retrying. Consumers requeue
// deliveries whose error unwraps to a temporary one.
type TempError interface {
	error
	Temporary() bool
}

type tempErr struct {
	err error
}

func NewTempError(err error) TempError {
	return tempErr{err: err}
}

func (e tempErr) Error() string {
	return e.err.Error()
}

func (e tempErr) Unwrap() error {
	return e.err
}

func (e tempErr) Temporary() bool {
	return true
}
