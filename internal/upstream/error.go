package upstream

import (
	"errors"
	"fmt"
)

// Error reports a failed call to an external collaborator
// (completion, transcription, image generation, speech synthesis, download, conversion).
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err, otherwise an *Error for op.
// An err that already is an *Error is returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *Error
	if errors.As(err, &ue) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// Op extracts the failed operation name, if err is an upstream failure.
func Op(err error) (string, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Op, true
	}
	return "", false
}
