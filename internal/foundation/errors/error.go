package errors

import (
	stderrors "errors"
	"log/slog"
	"maps"
	"slices"
)

// Category routes an error to an exit code and a presentation.
type Category string

const (
	// User input: the project file, theme options, frontmatter.
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"

	// Outside the process.
	CategoryNetwork Category = "network"
	CategoryGit     Category = "git"

	// Producing the site.
	CategoryBuild      Category = "build"
	CategoryTemplate   Category = "template"
	CategoryFileSystem Category = "filesystem"

	CategoryInternal Category = "internal"
)

// Severity is how far a failure reaches.
type Severity string

const (
	SeverityFatal   Severity = "fatal"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Fields is structured context attached to an error.
type Fields map[string]any

// Attrs returns the fields as slog attributes, sorted by key.
func (f Fields) Attrs() []slog.Attr {
	keys := slices.Sorted(maps.Keys(f))
	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, f[k]))
	}
	return out
}

// ClassifiedError is an error with a category, a severity and fields.
type ClassifiedError struct {
	category  Category
	severity  Severity
	transient bool
	message   string
	cause     error
	fields    Fields
}

// Error returns the message, followed by the cause when there is one.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() Category { return e.category }
func (e *ClassifiedError) Severity() Severity { return e.severity }
func (e *ClassifiedError) Message() string    { return e.message }
func (e *ClassifiedError) Cause() error       { return e.cause }

// Fields returns a copy of the error's fields.
func (e *ClassifiedError) Fields() Fields { return maps.Clone(e.fields) }

// Field returns one field as a string.
func (e *ClassifiedError) Field(key string) (string, bool) {
	s, ok := e.fields[key].(string)
	return s, ok
}

// WithContext returns a copy of e with key set.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	c := *e
	c.fields = maps.Clone(e.fields)
	if c.fields == nil {
		c.fields = Fields{}
	}
	c.fields[key] = value
	return &c
}

// CanRetry reports whether the failure is transient.
func (e *ClassifiedError) CanRetry() bool { return e.transient }

// IsFatal reports whether the failure stops the build.
func (e *ClassifiedError) IsFatal() bool { return e.severity == SeverityFatal }

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// HasCategory reports whether the first ClassifiedError in err's chain has
// category c.
func HasCategory(err error, c Category) bool {
	ce, ok := AsClassified(err)
	return ok && ce.category == c
}

// GetCategory returns err's category, or CategoryInternal for unclassified
// errors.
func GetCategory(err error) Category {
	if ce, ok := AsClassified(err); ok {
		return ce.category
	}
	return CategoryInternal
}
