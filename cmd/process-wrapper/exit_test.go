package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestExitErrHandler_NilError(t *testing.T) {
	// Should not panic or exit on nil error
	exitErrHandler(nil, nil)
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "child exit code without message",
			err:      cli.Exit("", 23),
			wantCode: 23,
			wantMsg:  "",
		},
		{
			name:     "exit code with message",
			err:      cli.Exit("bad flag", 1),
			wantCode: 1,
			wantMsg:  "bad flag",
		},
		{
			name:     "wrapped exit coder",
			err:      errors.Join(errors.New("context"), cli.Exit("", 42)),
			wantCode: 42,
		},
		{
			name:     "wrapper error",
			err:      fmt.Errorf("failed to process stderr: %w", errors.New("invalid character 'e'")),
			wantCode: 1,
			wantMsg:  "process wrapper error: failed to process stderr: invalid character 'e'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := exitCodeFor(tt.err)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantMsg != "" && msg != tt.wantMsg {
				t.Errorf("msg = %q, want %q", msg, tt.wantMsg)
			}
			if tt.wantMsg == "" && msg != "" {
				t.Errorf("msg = %q, want empty", msg)
			}
		})
	}
}
