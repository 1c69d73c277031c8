package shell

// ExceptionLog keeps every error reported to the user, oldest first.
type ExceptionLog struct {
	errs []error
}

// Append adds an error. Nil errors are ignored.
func (l *ExceptionLog) Append(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// All returns a copy of the logged errors.
func (l *ExceptionLog) All() []error {
	out := make([]error, len(l.errs))
	copy(out, l.errs)
	return out
}

// Last returns the most recent error, or nil.
func (l *ExceptionLog) Last() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l.errs[len(l.errs)-1]
}

// Len returns the number of logged errors.
func (l *ExceptionLog) Len() int {
	return len(l.errs)
}
