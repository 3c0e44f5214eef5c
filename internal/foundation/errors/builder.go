package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of category with default severity "error" and no
// recovery.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		recovery: RecoverNever,
		message:  message,
	}}
}

// WrapError starts an error of category caused by err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder { return b.WithSeverity(SeverityFatal) }

func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// NextBuild marks the error as cleared by fixing the source and rebuilding.
func (b *ErrorBuilder) NextBuild() *ErrorBuilder {
	b.err.recovery = RecoverOnRebuild
	return b
}

// UserAction marks the error as needing a flag, config or environment change.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	b.err.recovery = RecoverByUser
	return b
}

// Build returns the error. The builder may be reused; later changes do not
// affect errors already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// Command-level failures stop the current command.

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).UserAction()
}

// ResourceError reports an exhausted bounded search, e.g. the port window.
func ResourceError(message string) *ErrorBuilder {
	return NewError(CategoryResource, message).Fatal().UserAction()
}

func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

// InternalError reports a broken invariant.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}

// BuildError reports a build that could not run or finished with failed files.
func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).Fatal().NextBuild()
}

// Per-file failures are recorded in the error report and cleared by a rebuild.

func ParseError(message string) *ErrorBuilder {
	return NewError(CategoryParse, message).NextBuild()
}

func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message).NextBuild()
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).NextBuild()
}
