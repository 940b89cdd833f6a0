package utils

// Outcome is the result of an optional pipeline step. Ignorable failures are
// logged by the caller and never change the result of the run; everything
// else propagates as an ordinary error.
type Outcome struct {
	err       error
	ignorable bool
}

// Succeeded returns a successful outcome.
func Succeeded() Outcome { return Outcome{} }

// Failed returns an outcome carrying a propagating error.
func Failed(err error) Outcome { return Outcome{err: err} }

// Ignorable returns an outcome whose failure the caller may drop after logging.
func Ignorable(err error) Outcome { return Outcome{err: err, ignorable: err != nil} }

// OK reports whether the step succeeded.
func (o Outcome) OK() bool { return o.err == nil }

// IsIgnorable reports whether the step failed in a way the caller may skip.
func (o Outcome) IsIgnorable() bool { return o.ignorable }

// Err returns the failure, nil on success.
func (o Outcome) Err() error { return o.err }

// Propagate returns the error unless it was marked ignorable.
func (o Outcome) Propagate() error {
	if o.ignorable {
		return nil
	}
	return o.err
}
