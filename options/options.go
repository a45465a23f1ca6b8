// Package options resolves command-line values into a types.Invocation.
//
// Resolution applies, in order: substitution of ${key} placeholders, argument
// files, param-file expansion, the unstable-features guard, and the child
// environment (env files, status stamping, substitution).
package options

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pithecene-io/procwrap/iox"
	"github.com/pithecene-io/procwrap/types"
)

// pwdKey is always bound to the working directory.
const pwdKey = "pwd"

// allowFeaturesPrefix starts the unstable-features allow list argument.
const allowFeaturesPrefix = "-Zallow-features="

// Values are the raw wrapper options, before resolution.
type Values struct {
	// Command is the child executable followed by its arguments.
	Command []string

	// Subst are key=value substitution pairs.
	Subst []string
	// ProfileSubst are substitutions from the config profile.
	// Subst entries override them.
	ProfileSubst map[string]string

	// EnvFiles are KEY=VALUE files, later ones overriding earlier ones.
	EnvFiles []string
	// ProfileEnv is the profile's environment. EnvFiles override it.
	ProfileEnv map[string]string
	// StableStatusFile and VolatileStatusFile hold "KEY VALUE" lines used
	// to stamp {KEY} in environment values.
	StableStatusFile   string
	VolatileStatusFile string

	// ArgFiles hold one extra child argument per line.
	ArgFiles []string

	StdoutFile string
	StderrFile string
	OutputFile string
	TouchFile  string
	// CopyOutput is "src,dest".
	CopyOutput string

	DiagnosticFormat                string
	StopAfterMetadata               bool
	RequireExplicitUnstableFeatures bool
}

// Resolver turns Values into an Invocation.
type Resolver struct {
	// Getwd returns the working directory. Defaults to os.Getwd.
	Getwd func() (string, error)
	// ReadLines reads a line-oriented file. Defaults to iox.ReadLines.
	ReadLines func(path string) ([]string, error)
	// WriteFile writes expanded param files. Defaults to os.WriteFile.
	WriteFile func(path string, data []byte, perm os.FileMode) error
}

// Resolve resolves v with the default Resolver.
func Resolve(v Values) (*types.Invocation, error) {
	return (&Resolver{}).Resolve(v)
}

// Resolve builds and validates the invocation described by v.
func (r *Resolver) Resolve(v Values) (*types.Invocation, error) {
	r.setDefaults()

	if len(v.Command) == 0 {
		return nil, errors.New("missing child command after --")
	}

	subst, err := r.substitutions(v)
	if err != nil {
		return nil, err
	}

	format, err := types.ParseDiagnosticFormat(v.DiagnosticFormat)
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, len(v.Command)-1)
	for _, arg := range v.Command[1:] {
		args = append(args, subst.apply(arg))
	}
	for _, path := range v.ArgFiles {
		lines, err := r.ReadLines(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read arg file: %w", err)
		}
		for _, line := range lines {
			args = append(args, subst.apply(line))
		}
	}

	args, err = r.expandParamFiles(args, subst)
	if err != nil {
		return nil, err
	}

	if v.RequireExplicitUnstableFeatures && !hasAllowFeatures(args) {
		args = append(args, allowFeaturesPrefix)
	}

	env, err := r.environment(v, subst)
	if err != nil {
		return nil, err
	}

	inv := &types.Invocation{
		Executable:        subst.apply(v.Command[0]),
		Args:              args,
		Env:               env,
		StdoutFile:        v.StdoutFile,
		StderrFile:        v.StderrFile,
		OutputFile:        v.OutputFile,
		TouchFile:         v.TouchFile,
		Format:            format,
		StopAfterMetadata: v.StopAfterMetadata,
	}

	if v.CopyOutput != "" {
		src, dest, ok := strings.Cut(v.CopyOutput, ",")
		if !ok || strings.Contains(dest, ",") {
			return nil, fmt.Errorf("invalid --copy-output %q: want source,destination", v.CopyOutput)
		}
		inv.CopyOutput = &types.CopyPair{Source: subst.apply(src), Destination: subst.apply(dest)}
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *Resolver) setDefaults() {
	if r.Getwd == nil {
		r.Getwd = os.Getwd
	}
	if r.ReadLines == nil {
		r.ReadLines = iox.ReadLines
	}
	if r.WriteFile == nil {
		r.WriteFile = os.WriteFile
	}
}

func hasAllowFeatures(args []string) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, allowFeaturesPrefix) {
			return true
		}
	}
	return false
}
