package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		code ErrCode
		is   func(error) bool
	}{
		{NewInvalidNameError("bad"), ErrCodeInvalidName, IsInvalidName},
		{NewAPIError("not found", nil), ErrCodeAPIError, IsAPIError},
		{NewForkIgnoredError("acme/widget"), ErrCodeForkIgnored, IsForkIgnored},
		{NewNoVersionTagError("acme/widget"), ErrCodeNoVersionTag, IsNoVersionTag},
		{NewNoRepositoriesError("acme"), ErrCodeNoRepositories, IsNoRepositories},
		{NewInternalError("oops", nil), ErrCodeInternal, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if CodeOf(tt.err) != tt.code {
				t.Errorf("CodeOf = %s, want %s", CodeOf(tt.err), tt.code)
			}
			if tt.is != nil && !tt.is(tt.err) {
				t.Error("predicate rejected its own error")
			}
		})
	}
}

func TestCodeOf_WrappedAndForeign(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NewForkIgnoredError("acme/widget"))
	if CodeOf(wrapped) != ErrCodeForkIgnored {
		t.Errorf("CodeOf(wrapped) = %s, want FORK_IGNORED", CodeOf(wrapped))
	}

	if CodeOf(stderrors.New("plain")) != ErrCodeInternal {
		t.Error("foreign errors should map to INTERNAL_ERROR")
	}
	if IsForkIgnored(stderrors.New("plain")) {
		t.Error("predicate matched a foreign error")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("status 503")
	err := NewAPIError("service unavailable", cause)
	if !stderrors.Is(err, cause) {
		t.Error("AppError should unwrap to its cause")
	}
}
