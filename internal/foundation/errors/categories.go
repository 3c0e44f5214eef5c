package errors

import (
	"maps"
	"net/http"
)

// ErrorCategory is the broad class of a failure. It decides the process exit
// code and the dev server status code.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Per-file build failures: front matter, YAML, templates, disk I/O.
	CategoryParse      ErrorCategory = "parse"
	CategoryRender     ErrorCategory = "render"
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryResource is exhaustion of a bounded resource such as the port window.
	CategoryResource ErrorCategory = "resource"
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ExitUnclassified is the exit code for errors carrying no category.
const ExitUnclassified = 1

type categoryInfo struct {
	exitCode   int
	httpStatus int
}

var categories = map[ErrorCategory]categoryInfo{
	CategoryValidation: {2, http.StatusBadRequest},
	CategoryNotFound:   {3, http.StatusNotFound},
	CategoryConfig:     {7, http.StatusBadRequest},
	CategoryResource:   {9, http.StatusServiceUnavailable},
	CategoryInternal:   {10, http.StatusInternalServerError},
	CategoryBuild:      {11, http.StatusUnprocessableEntity},
	CategoryParse:      {11, http.StatusUnprocessableEntity},
	CategoryRender:     {11, http.StatusUnprocessableEntity},
	CategoryFileSystem: {11, http.StatusInternalServerError},
	CategoryRuntime:    {12, http.StatusServiceUnavailable},
}

// ExitCode is the process exit code for errors of this category.
func (c ErrorCategory) ExitCode() int {
	if info, ok := categories[c]; ok {
		return info.exitCode
	}
	return ExitUnclassified
}

// HTTPStatus is the response status for errors of this category.
func (c ErrorCategory) HTTPStatus() int {
	if info, ok := categories[c]; ok {
		return info.httpStatus
	}
	return http.StatusInternalServerError
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // stops the command
	SeverityError   ErrorSeverity = "error"   // fails one file or request
	SeverityWarning ErrorSeverity = "warning" // output produced, possibly degraded
	SeverityInfo    ErrorSeverity = "info"
)

// Recovery describes what makes a failure go away.
type Recovery string

const (
	RecoverNever     Recovery = "never"
	RecoverOnRebuild Recovery = "rebuild" // fixing the source and rebuilding clears it
	RecoverByUser    Recovery = "user"    // a flag, config or environment change is needed
)

// ErrorContext carries structured fields for logging and error payloads.
type ErrorContext map[string]any

// Set adds or updates a value, allocating the map when needed.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get returns the value for key.
func (c ErrorContext) Get(key string) (any, bool) {
	value, ok := c[key]
	return value, ok
}

// StringValue returns the value for key when it is a string.
func (c ErrorContext) StringValue(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}
