package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestExitErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrResolveFailed, ExitUser),
			want: "unable to resolve interpreter",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("loading config: %w", ErrInvalidConfig), ExitUser),
			want: "loading config: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	err := NewUserError(ErrResolveFailed, "run with -v for details")
	if !stderrors.Is(err, ErrResolveFailed) {
		t.Error("errors.Is should see through ExitError")
	}

	var exitErr *ExitError
	wrapped := fmt.Errorf("handling request: %w", err)
	if !stderrors.As(wrapped, &exitErr) {
		t.Fatal("errors.As failed to find ExitError")
	}
	if exitErr.Code != ExitUser {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitUser)
	}
	if exitErr.Suggestion == "" {
		t.Error("Suggestion lost through wrapping")
	}
}

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrNotExecutable, "resolving path")
	if !Is(err, ErrNotExecutable) {
		t.Error("Wrap broke errors.Is on sentinel")
	}
}

func TestMarkPreservesSentinel(t *testing.T) {
	err := Mark(New("version: unsupported"), ErrInvalidConfig)
	if !Is(err, ErrInvalidConfig) {
		t.Error("Mark broke errors.Is on sentinel")
	}
	if err.Error() != "version: unsupported" {
		t.Errorf("Mark changed the message: %q", err.Error())
	}
}
