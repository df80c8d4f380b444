package srvcerror

// Error is a user-facing error with a stable machine-readable code.
// The code lets callers branch on the failure category while the
// message stays human-readable. An optional debug error carries the
// underlying cause for logs; it is never shown to the user.
type Error struct {
	errorCode string
	msgToUser string // public
	dbgInfo   error  // private, for debugging
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) DebugInfo() error {
	return e.dbgInfo
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgInfo = err
	return e
}

// Unwrap exposes the debug error to errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.dbgInfo
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

// HasCode reports whether err is (or wraps) a coded error with the
// given code.
func HasCode(err error, code string) bool {
	for err != nil {
		if se, ok := err.(*Error); ok && se.errorCode == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

const ErrCodeInternal = "internal_error"

func ErrInternal() *Error {
	return New(
		ErrCodeInternal,
		"internal error",
	)
}
