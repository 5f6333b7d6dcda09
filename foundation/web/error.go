package web

// Error is a request-scoped error carrying the HTTP status the handler
// chain should respond with.
type Error struct {
	Err    error
	Status int
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// NewRequestError wraps err so the response boundary knows which status
// to answer with.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}
