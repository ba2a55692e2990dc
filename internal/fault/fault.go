package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind enumerates the failure classes a request pipeline can produce.
// Handlers match on the kind at the orchestrator boundary instead of
// inspecting error strings.
type Kind string

const (
	KindUnknown               Kind = "unknown"
	KindDependencyUnavailable Kind = "dependency_unavailable"
	KindTranscodeFailed       Kind = "transcode_failed"
	KindServiceUnavailable    Kind = "service_unavailable"
	KindUnsupportedFileType   Kind = "unsupported_file_type"
	KindEmptyFile             Kind = "empty_file"
	KindUnsupportedEncoding   Kind = "unsupported_encoding"
	KindEmptyGeneration       Kind = "empty_generation"
	KindInvalidStoryJSON      Kind = "invalid_story_json"
	KindNotFound              Kind = "not_found"
)

// Fault is an error carrying an enumerated kind and a human-readable message.
type Fault struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// New creates a Fault with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a Fault around an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Fault {
	return &Fault{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf returns the kind of the first Fault in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// MessageOf returns the human-readable message of the first Fault in err's
// chain, or a generic message if there is none.
func MessageOf(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Message
	}
	return "An unexpected error occurred"
}

// HTTPStatus maps an error to the HTTP status code the orchestrator
// boundary should respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnsupportedFileType, KindEmptyFile, KindUnsupportedEncoding:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDependencyUnavailable, KindServiceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
