package options

import (
	"fmt"
	"sort"
	"strings"
)

// substitutions maps placeholder keys to values. ${key} is replaced.
type substitutions map[string]string

// substitutions binds pwd, then the profile's pairs, then --subst pairs.
// A value of "${pwd}" resolves to the working directory.
func (r *Resolver) substitutions(v Values) (substitutions, error) {
	pwd, err := r.Getwd()
	if err != nil {
		return nil, fmt.Errorf("unable to read current working directory: %w", err)
	}

	s := substitutions{pwdKey: pwd}
	bind := func(key, value string) {
		if value == "${"+pwdKey+"}" {
			value = pwd
		}
		s[key] = value
	}

	for key, value := range v.ProfileSubst {
		bind(key, value)
	}
	for _, pair := range v.Subst {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --subst %q: want key=value", pair)
		}
		bind(key, value)
	}
	return s, nil
}

// apply replaces every ${key} in s. Keys are applied in sorted order so
// the result does not depend on map iteration.
func (s substitutions) apply(in string) string {
	if !strings.Contains(in, "${") {
		return in
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := in
	for _, k := range keys {
		out = strings.ReplaceAll(out, "${"+k+"}", s[k])
	}
	return out
}
