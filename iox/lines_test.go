package iox

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lines.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single no newline", "--cfg=foo", []string{"--cfg=foo"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"skips blank lines", "a\n\nb\n\r\n", []string{"a", "b"}},
		{"blank line inside continuation", "KEY=first\\\n\nsecond\n", []string{"KEY=first\nsecond"}},
		{"continuation", "KEY=first\\\nsecond\nOTHER=x\n", []string{"KEY=first\nsecond", "OTHER=x"}},
		{"dangling continuation", "KEY=v\\", []string{"KEY=v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLines(writeFile(t, tt.content))
			if err != nil {
				t.Fatalf("ReadLines failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ReadLines = %q, want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadLines_Missing(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
