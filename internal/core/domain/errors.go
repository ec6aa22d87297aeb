package domain

import "errors"

// Domain errors are wrapped with fmt.Errorf("%w: ...") at the point of
// detection and checked by callers with errors.Is.
var (
	// ErrInvalidArgument indicates malformed input: a bad record shape,
	// a non-mapping context, or a level gap while building a tree.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnimplemented indicates a document was used without a topology.
	// It is a programming error and is raised as a panic.
	ErrUnimplemented = errors.New("unimplemented")

	// ErrInvalidDocument indicates a loaded document has a missing or
	// unknown format tag, or an unknown document type.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrFile indicates a read or parse failure on a file.
	ErrFile = errors.New("file error")

	// ErrConfig indicates an invalid module configuration.
	ErrConfig = errors.New("config error")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
