package errors

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
// or implement StatusCoder
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Status() int {
	return e.StatusCode
}

// StatusCoder is implemented by errors that know their HTTP status.
type StatusCoder interface {
	error
	Status() int
}
