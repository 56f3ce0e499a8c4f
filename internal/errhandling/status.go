package errhandling

// Process exit codes derived from a final Status.
const (
	ExitOK      = 0
	ExitHandled = 1
	ExitStop    = 2
	ExitUsage   = 3
)

// Status is the outcome of classifying one error. The response and the
// retry decision are fixed at classification time; only the result code
// may be replaced later, and only by producing a new Status.
type Status struct {
	response   Response
	retryable  bool
	resultCode int
}

func NewStatus(response Response, retryable bool, resultCode int) Status {
	return Status{
		response:   response,
		retryable:  retryable,
		resultCode: resultCode,
	}
}

func (s Status) Response() Response {
	return s.response
}

func (s Status) Retryable() bool {
	return s.retryable
}

func (s Status) ResultCode() int {
	return s.resultCode
}

// WithResultCode returns a copy of s carrying code.
func (s Status) WithResultCode(code int) Status {
	s.resultCode = code
	return s
}

// Finalize sets the code the process or activity will finish with.
func Finalize(s Status, code int) Status {
	return s.WithResultCode(code)
}

func resultCodeFor(r Response) int {
	switch {
	case r.Has(Stop):
		return ExitStop
	case r == Ignore:
		return ExitOK
	default:
		return ExitHandled
	}
}
