package options

import (
	"fmt"
	"strings"
)

// environment builds the child environment: the profile's map, then env
// files in order, each value stamped from the status files and substituted.
func (r *Resolver) environment(v Values, subst substitutions) (map[string]string, error) {
	env := make(map[string]string, len(v.ProfileEnv))
	for k, val := range v.ProfileEnv {
		env[k] = val
	}

	for _, path := range v.EnvFiles {
		lines, err := r.ReadLines(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		for _, line := range lines {
			key, value, ok := strings.Cut(line, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("invalid line %q in env file %s: want KEY=VALUE", line, path)
			}
			env[key] = value
		}
	}

	stamps, err := r.statusStamps(v.StableStatusFile, v.VolatileStatusFile)
	if err != nil {
		return nil, err
	}

	for k, val := range env {
		for _, st := range stamps {
			val = strings.ReplaceAll(val, "{"+st.key+"}", st.value)
		}
		env[k] = subst.apply(val)
	}
	return env, nil
}

type stamp struct {
	key   string
	value string
}

// statusStamps reads "KEY VALUE" lines from the status files, stable first.
// A line without a value stamps the empty string.
func (r *Resolver) statusStamps(paths ...string) ([]stamp, error) {
	var stamps []stamp
	for _, path := range paths {
		if path == "" {
			continue
		}
		lines, err := r.ReadLines(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read status file: %w", err)
		}
		for _, line := range lines {
			key, value, _ := strings.Cut(line, " ")
			stamps = append(stamps, stamp{key: key, value: value})
		}
	}
	return stamps, nil
}
