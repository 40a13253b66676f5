package lineedit

import (
	"errors"
	"fmt"
	"io"
)

// ErrEndOfFile is returned by ReadLine when input ends, either through the
// end-of-file key or because the transport ran out of input.
var ErrEndOfFile = fmt.Errorf("end of file: %w", io.EOF)

// TransportError reports a failed terminal operation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}
