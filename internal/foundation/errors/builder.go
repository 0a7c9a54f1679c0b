package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

// WithCause sets the underlying error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

func (b *ErrorBuilder) warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

func (b *ErrorBuilder) retryWith(strategy RetryStrategy) *ErrorBuilder {
	b.retry = strategy
	return b
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		retry:    b.retry,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for common error patterns

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).retryWith(RetryUserAction)
}

// AuthError creates an authentication error.
func AuthError(message string) *ErrorBuilder {
	return NewError(CategoryAuth, message).warning().retryWith(RetryUserAction)
}

// NotFoundError creates a not-found error.
func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message).warning()
}

// StorageUnavailable creates an error for a document that cannot be read or parsed.
func StorageUnavailable(message string) *ErrorBuilder {
	return NewError(CategoryStorage, message).retryWith(RetryResubmit)
}

// StorageWriteError creates an error for a document that could not be persisted.
func StorageWriteError(message string) *ErrorBuilder {
	return NewError(CategoryStorage, message).retryWith(RetryResubmit)
}

// NetworkError creates a network error.
func NetworkError(message string) *ErrorBuilder {
	return NewError(CategoryNetwork, message).retryWith(RetryResubmit)
}

// NotifyError creates a notification transport error.
func NotifyError(message string) *ErrorBuilder {
	return NewError(CategoryNotify, message).warning()
}

// EventStoreError creates an audit store error.
func EventStoreError(message string) *ErrorBuilder {
	return NewError(CategoryEventStore, message)
}

// RuntimeError creates a runtime error.
func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
