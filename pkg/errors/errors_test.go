package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", NotFoundf("user", 7), ErrCodeNotFound},
		{"validation", Validationf("bad login %q", "  "), ErrCodeValidation},
		{"wrapped app error", fmt.Errorf("handler: %w", NotFoundf("film", 3)), ErrCodeNotFound},
		{"plain error", stderrors.New("boom"), ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotFoundfMessage(t *testing.T) {
	err := NotFoundf("user", 42)
	if err.Message != "user with id=42 not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeInternalError, "query failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause lost")
	}
	if IsValidation(err) || IsNotFound(err) {
		t.Error("internal error misclassified")
	}
}
