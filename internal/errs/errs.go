// Package errs defines the error-code taxonomy surfaced at every public
// boundary (spec.md §6 "Error codes", §7 "Error handling design"). Every
// fallible operation in this module returns a Go error; callers that need
// the coarse-grained code for branching type-assert to *Error and inspect
// Code.
package errs

import "fmt"

// Code is one of the fixed error classes spec.md §6 enumerates.
type Code int

const (
	InvalidArgument Code = iota
	InvalidType
	InvalidIndex
	InvalidFormat
	ArrayOutOfBounds
	OutOfBoundsRead
	OutOfMemory
	FileRead
	NoHDF4Support
	NoHDF5Support
	Expression
	DataDefinition
	Product
	XML
)

func (c Code) String() string {
	switch c {
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidType:
		return "InvalidType"
	case InvalidIndex:
		return "InvalidIndex"
	case InvalidFormat:
		return "InvalidFormat"
	case ArrayOutOfBounds:
		return "ArrayOutOfBounds"
	case OutOfBoundsRead:
		return "OutOfBoundsRead"
	case OutOfMemory:
		return "OutOfMemory"
	case FileRead:
		return "FileRead"
	case NoHDF4Support:
		return "NoHDF4Support"
	case NoHDF5Support:
		return "NoHDF5Support"
	case Expression:
		return "Expression"
	case DataDefinition:
		return "DataDefinition"
	case Product:
		return "Product"
	case XML:
		return "XML"
	default:
		return "Unknown"
	}
}

// Error carries a Code plus a formatted message, the thread-local
// "(code, message)" pair of the source rendered as a normal Go error
// value instead of package-global mutable state (see pkg/options for the
// parallel decision on option flags).
type Error struct {
	Code    Code
	Message string
	// Path, when non-empty, is the cursor path at which the error
	// occurred (spec.md §7: "The evaluator annotates cursor-position
	// errors with the failing path").
	Path string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithPath returns a copy of e annotated with a cursor path.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// CodeOf extracts the Code from err if it is (or wraps) an *Error,
// defaulting to InvalidFormat for unrecognized errors — the closest
// analogue to "something about the data is wrong" for errors this
// package did not originate.
func CodeOf(err error) Code {
	var e *Error
	if as(err, &e) {
		return e.Code
	}
	return InvalidFormat
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
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
