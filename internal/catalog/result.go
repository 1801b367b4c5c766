package catalog

import "errors"

// Result is the outcome of a workflow: exactly one of Render, Redirect or
// Failure. The presentation layer decides how to deliver it.
type Result interface {
	result()
}

// ViewData is the model handed to a view.
type ViewData map[string]any

// Render asks for View to be displayed with Data.
type Render struct {
	View string
	Data ViewData
}

// Redirect sends the client to Path.
type Redirect struct {
	Path string
}

// Failure carries an error that ends the request. Cause is a NotFoundError
// or wraps a StoreError.
type Failure struct {
	Cause error
}

func (Render) result()   {}
func (Redirect) result() {}
func (Failure) result()  {}

func (f Failure) Error() string {
	return f.Cause.Error()
}

func (f Failure) Unwrap() error {
	return f.Cause
}

// fail wraps err as a Failure. A NotFoundError is surfaced bare so callers
// see the entity and id without aggregation labels.
func fail(err error) Result {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return Failure{Cause: nf}
	}
	return Failure{Cause: err}
}
