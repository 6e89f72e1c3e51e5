package wire

// Status codes the decoder knows about.
const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusFound               = 302
	StatusBadRequest          = 400
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusInternalServerError = 500
)

// dispatch is the decision taken after the status line.
type dispatch uint8

const (
	dispatchContinue  dispatch = iota // decode headers and body
	dispatchNotFound                  // decode in full, then close the connection
	dispatchTerminal                  // stop, final answer from the server
	dispatchUnhandled                 // stop, unknown status
)

func dispatchStatus(code int) dispatch {
	switch code {
	case StatusOK, StatusCreated, StatusFound:
		return dispatchContinue
	case StatusNotFound:
		return dispatchNotFound
	case StatusBadRequest, StatusForbidden, StatusInternalServerError:
		return dispatchTerminal
	default:
		return dispatchUnhandled
	}
}

// IsSuccess reports whether code is a status whose body is returned to the caller as a
// successful response.
func IsSuccess(code int) bool {
	return dispatchStatus(code) == dispatchContinue
}

// IsTerminal reports whether code ends a request without a retry.
func IsTerminal(code int) bool {
	return dispatchStatus(code) == dispatchTerminal
}
