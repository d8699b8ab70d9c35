package errors

import (
	"errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeInvalidName    ErrCode = "INVALID_NAME"
	ErrCodeAPIError       ErrCode = "API_ERROR"
	ErrCodeForkIgnored    ErrCode = "FORK_IGNORED"
	ErrCodeNoVersionTag   ErrCode = "NO_VERSION_TAG"
	ErrCodeNoRepositories ErrCode = "NO_REPOSITORIES"
	ErrCodeInternal       ErrCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidNameError reports a repository name that does not match the
// owner/name format
func NewInvalidNameError(fullName string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidName,
		Message: fmt.Sprintf("invalid repository name %q, expected owner/name", fullName),
	}
}

// NewAPIError wraps a non-OK response from the GitHub API, carrying the
// host-supplied message
func NewAPIError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeAPIError,
		Message: message,
		Err:     err,
	}
}

// NewForkIgnoredError reports a repository rejected because it is a fork
func NewForkIgnoredError(fullName string) *AppError {
	return &AppError{
		Code:    ErrCodeForkIgnored,
		Message: fmt.Sprintf("forked repo %s ignored", fullName),
	}
}

// NewNoVersionTagError reports a repository without any official release tag
func NewNoVersionTagError(fullName string) *AppError {
	return &AppError{
		Code:    ErrCodeNoVersionTag,
		Message: fmt.Sprintf("repo %s has no version tag", fullName),
	}
}

// NewNoRepositoriesError reports an account without any repositories
func NewNoRepositoriesError(login string) *AppError {
	return &AppError{
		Code:    ErrCodeNoRepositories,
		Message: fmt.Sprintf("account %s has no repositories", login),
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the ErrCode of err, or ErrCodeInternal when err is not an
// AppError
func CodeOf(err error) ErrCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsInvalidName checks if the error is an invalid name error
func IsInvalidName(err error) bool {
	return CodeOf(err) == ErrCodeInvalidName
}

// IsAPIError checks if the error is a remote API error
func IsAPIError(err error) bool {
	return CodeOf(err) == ErrCodeAPIError
}

// IsForkIgnored checks if the error is a fork rejection
func IsForkIgnored(err error) bool {
	return CodeOf(err) == ErrCodeForkIgnored
}

// IsNoVersionTag checks if the error is a missing version tag rejection
func IsNoVersionTag(err error) bool {
	return CodeOf(err) == ErrCodeNoVersionTag
}

// IsNoRepositories checks if the error is an empty account rejection
func IsNoRepositories(err error) bool {
	return CodeOf(err) == ErrCodeNoRepositories
}
