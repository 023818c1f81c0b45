package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFileFormat    = errors.New("file format error")
	ErrFieldNotFound = errors.New("field not found")
)

// FileFormatError is returned for any input file that is missing, unreadable
// or does not parse as the expected mesh or collection format
type FileFormatError struct {
	Path string
	Err  error
}

func NewFileFormatError(path string, format string, args ...interface{}) *FileFormatError {
	return &FileFormatError{Path: path, Err: fmt.Errorf(format, args...)}
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrFileFormat, e.Path, e.Err)
}

func (e *FileFormatError) Unwrap() error { return e.Err }

func (e *FileFormatError) Is(target error) bool { return target == ErrFileFormat }

type FieldNotFoundError struct {
	Key       string
	Available []string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q, available fields: [%s]",
		ErrFieldNotFound, e.Key, strings.Join(e.Available, ", "))
}

func (e *FieldNotFoundError) Is(target error) bool { return target == ErrFieldNotFound }

// FieldKindError is a scalar operation asked for a vector field or vice versa
type FieldKindError struct {
	Name      string
	Want, Got FieldKind
}

func (e *FieldKindError) Error() string {
	return fmt.Sprintf("field %q is a %s field, a %s field is required", e.Name, e.Got, e.Want)
}
