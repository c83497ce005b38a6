package graphql

import "github.com/pkg/errors"

// CodeAccessDenied is the extensions code carried by access-denied error
// entries. Executors may attach it to field-level errors to have them
// classified the same way as validator denials.
const CodeAccessDenied = "ACCESS_DENIED"

// AccessDeniedError marks an authorization failure that belongs to the
// query's own error model. The adapter reports it as a GraphQL error at
// status 200 rather than a transport-level failure.
type AccessDeniedError struct {
	Reason string
}

// NewAccessDenied returns an AccessDeniedError with the given reason.
// An empty reason falls back to a generic message.
func NewAccessDenied(reason string) *AccessDeniedError {
	return &AccessDeniedError{Reason: reason}
}

func (e *AccessDeniedError) Error() string {
	if e.Reason == "" {
		return "access denied"
	}
	return e.Reason
}

// IsAccessDenied reports whether err carries an access denial anywhere in
// its wrap chain, either as an AccessDeniedError or as a GraphQL error
// entry tagged with CodeAccessDenied.
func IsAccessDenied(err error) bool {
	var denied *AccessDeniedError
	if errors.As(err, &denied) {
		return true
	}
	var entry *Error
	if errors.As(err, &entry) {
		code, _ := entry.Extensions["code"].(string)
		return code == CodeAccessDenied
	}
	return false
}

// DeniedResult builds the single-entry execution result reported for an
// access denial.
func DeniedResult(err error) *Result {
	entry := &Error{
		Message:    "access denied",
		Extensions: map[string]any{"code": CodeAccessDenied},
	}
	var denied *AccessDeniedError
	var gqlErr *Error
	switch {
	case errors.As(err, &denied):
		entry.Message = denied.Error()
	case errors.As(err, &gqlErr):
		entry = gqlErr
	case err != nil:
		entry.Message = err.Error()
	}
	return &Result{Errors: []*Error{entry}}
}
