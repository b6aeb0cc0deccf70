package diag

// Error is a fatal diagnostic with its span already resolved to a position.
// Err keeps the phase-specific error so callers can still errors.As into it.
type Error struct {
	Code Code
	Pos  string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Pos == "" {
		return e.Msg
	}
	return e.Pos + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
