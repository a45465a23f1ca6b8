package iox

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadLines reads a text file as an ordered list of lines.
//
// Line terminators ("\n" or "\r\n") are stripped and empty lines are
// skipped. A line ending in a backslash continues on the next non-empty
// line; the two are joined with a newline and the backslash is dropped.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer DiscardClose(f)

	var (
		lines   []string
		pending strings.Builder
		joining bool
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, `\`) {
			pending.WriteString(strings.TrimSuffix(line, `\`))
			pending.WriteByte('\n')
			joining = true
			continue
		}
		if joining {
			pending.WriteString(line)
			line = pending.String()
			pending.Reset()
			joining = false
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	if joining {
		lines = append(lines, strings.TrimSuffix(pending.String(), "\n"))
	}
	return lines, nil
}
