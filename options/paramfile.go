package options

import (
	"fmt"
	"strings"
)

const (
	paramFilePrefix = "@"
	expandedSuffix  = ".expanded"
)

// expandParamFiles rewrites every "@path" argument to "@path.expanded",
// writing that file with the substituted lines of path. Nested "@" lines
// are inlined.
func (r *Resolver) expandParamFiles(args []string, subst substitutions) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		path, ok := strings.CutPrefix(arg, paramFilePrefix)
		if !ok {
			out = append(out, arg)
			continue
		}

		var lines []string
		if err := r.collectParamLines(path, subst, map[string]bool{}, &lines); err != nil {
			return nil, err
		}

		expanded := path + expandedSuffix
		data := strings.Join(lines, "\n")
		if len(lines) > 0 {
			data += "\n"
		}
		if err := r.WriteFile(expanded, []byte(data), 0o644); err != nil {
			return nil, fmt.Errorf("unable to write expanded param file %s: %w", expanded, err)
		}
		out = append(out, paramFilePrefix+expanded)
	}
	return out, nil
}

func (r *Resolver) collectParamLines(path string, subst substitutions, active map[string]bool, lines *[]string) error {
	if active[path] {
		return fmt.Errorf("param file %s includes itself", path)
	}
	active[path] = true
	defer delete(active, path)

	raw, err := r.ReadLines(path)
	if err != nil {
		return fmt.Errorf("failed to read param file: %w", err)
	}
	for _, line := range raw {
		line = subst.apply(line)
		if nested, ok := strings.CutPrefix(line, paramFilePrefix); ok {
			if err := r.collectParamLines(nested, subst, active, lines); err != nil {
				return err
			}
			continue
		}
		*lines = append(*lines, line)
	}
	return nil
}
