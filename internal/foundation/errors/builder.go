package errors

import "fmt"

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of category c. Severity defaults to error.
func NewError(c Category, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: c,
		severity: SeverityError,
		message:  message,
		fields:   Fields{},
	}}
}

// WrapError starts an error of category c caused by err.
func WrapError(err error, c Category, message string) *ErrorBuilder {
	b := NewError(c, message)
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithSeverity(s Severity) *ErrorBuilder {
	b.err.severity = s
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.fields[key] = value
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// Retryable marks the failure as transient.
func (b *ErrorBuilder) Retryable() *ErrorBuilder {
	b.err.transient = true
	return b
}

// Build returns the error. The builder must not be reused.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// ConfigError is a hard configuration error. These abort the build.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// OptionError is a ConfigError about the theme option name.
func OptionError(name, format string, args ...any) *ErrorBuilder {
	return ConfigError(fmt.Sprintf(format, args...)).WithContext("option", name)
}

// ValidationError reports malformed input data.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// NetworkError reports a failed remote read. Only transport failures and
// server-side answers are worth retrying, so callers mark those.
func NetworkError(message string) *ErrorBuilder {
	return NewError(CategoryNetwork, message)
}

// TemplateError reports a template that cannot be loaded or rendered.
func TemplateError(message string) *ErrorBuilder {
	return NewError(CategoryTemplate, message).Fatal()
}

// BuildError reports a failed build.
func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).Fatal()
}
