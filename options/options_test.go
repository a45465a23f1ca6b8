package options

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pithecene-io/procwrap/types"
)

func fixedWd(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func writeLines(t *testing.T, path string, lines ...string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestResolve_MissingCommand(t *testing.T) {
	if _, err := Resolve(Values{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestResolve_PwdSubstitution(t *testing.T) {
	r := &Resolver{Getwd: fixedWd("/work")}
	inv, err := r.Resolve(Values{
		Command: []string{"${pwd}/bin/rustc", "${pwd}/suffix", "--out-dir=${pwd}"},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if inv.Executable != "/work/bin/rustc" {
		t.Errorf("Executable = %q, want %q", inv.Executable, "/work/bin/rustc")
	}
	want := []string{"/work/suffix", "--out-dir=/work"}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Errorf("Args = %v, want %v", inv.Args, want)
	}
}

func TestResolve_SubstPairs(t *testing.T) {
	r := &Resolver{Getwd: fixedWd("/work")}
	inv, err := r.Resolve(Values{
		Command:      []string{"rustc", "${out}/lib", "${root}/src", "${base}"},
		Subst:        []string{"out=bazel-out", "root=${pwd}"},
		ProfileSubst: map[string]string{"out": "ignored", "base": "profile"},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"bazel-out/lib", "/work/src", "profile"}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Errorf("Args = %v, want %v", inv.Args, want)
	}
}

func TestResolve_InvalidSubst(t *testing.T) {
	r := &Resolver{Getwd: fixedWd("/work")}
	for _, pair := range []string{"novalue", "=value"} {
		if _, err := r.Resolve(Values{Command: []string{"rustc"}, Subst: []string{pair}}); err == nil {
			t.Errorf("expected error for --subst %q", pair)
		}
	}
}

func TestResolve_GetwdError(t *testing.T) {
	r := &Resolver{Getwd: func() (string, error) { return "", errors.New("gone") }}
	if _, err := r.Resolve(Values{Command: []string{"rustc"}}); err == nil {
		t.Fatal("expected error when the working directory is unavailable")
	}
}

func TestResolve_ArgFiles(t *testing.T) {
	dir := t.TempDir()
	argFile := writeLines(t, filepath.Join(dir, "args"), "--cfg", "feature=\"${pwd}\"")

	r := &Resolver{Getwd: fixedWd("/work")}
	inv, err := r.Resolve(Values{Command: []string{"rustc", "lib.rs"}, ArgFiles: []string{argFile}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"lib.rs", "--cfg", `feature="/work"`}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Errorf("Args = %v, want %v", inv.Args, want)
	}
}

func TestResolve_ArgFileBlankLinesSkipped(t *testing.T) {
	argFile := filepath.Join(t.TempDir(), "args")
	if err := os.WriteFile(argFile, []byte("--cfg\n\nfoo\n\n"), 0o644); err != nil {
		t.Fatalf("write arg file: %v", err)
	}

	inv, err := Resolve(Values{Command: []string{"rustc"}, ArgFiles: []string{argFile}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"--cfg", "foo"}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Errorf("Args = %q, want %q", inv.Args, want)
	}
}

func TestResolve_MissingArgFile(t *testing.T) {
	_, err := Resolve(Values{Command: []string{"rustc"}, ArgFiles: []string{filepath.Join(t.TempDir(), "nope")}})
	if err == nil {
		t.Fatal("expected error for missing arg file")
	}
}

func TestResolve_EnvFilesAndStamping(t *testing.T) {
	dir := t.TempDir()
	first := writeLines(t, filepath.Join(dir, "first.env"), "A=1", "B=first", "", `MULTI=one\`, "two")
	second := writeLines(t, filepath.Join(dir, "second.env"), "B=second", "VERSION={BUILD_SCM_REVISION}-{BUILD_TIMESTAMP}", "ROOT=${pwd}/x")
	stable := writeLines(t, filepath.Join(dir, "stable-status.txt"), "BUILD_SCM_REVISION abc123")
	volatile := writeLines(t, filepath.Join(dir, "volatile-status.txt"), "BUILD_TIMESTAMP 1700000000")

	r := &Resolver{Getwd: fixedWd("/work")}
	inv, err := r.Resolve(Values{
		Command:            []string{"rustc"},
		EnvFiles:           []string{first, second},
		ProfileEnv:         map[string]string{"A": "profile", "P": "kept"},
		StableStatusFile:   stable,
		VolatileStatusFile: volatile,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := map[string]string{
		"A":       "1",
		"B":       "second",
		"MULTI":   "one\ntwo",
		"P":       "kept",
		"VERSION": "abc123-1700000000",
		"ROOT":    "/work/x",
	}
	if !reflect.DeepEqual(inv.Env, want) {
		t.Errorf("Env = %v, want %v", inv.Env, want)
	}
}

func TestResolve_EnvNotInherited(t *testing.T) {
	t.Setenv("PROCWRAP_OPTIONS_LEAK", "leaked")
	inv, err := Resolve(Values{Command: []string{"rustc"}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(inv.Env) != 0 {
		t.Errorf("Env = %v, want empty", inv.Env)
	}
}

func TestResolve_InvalidEnvLine(t *testing.T) {
	envFile := writeLines(t, filepath.Join(t.TempDir(), "bad.env"), "NOEQUALS")
	if _, err := Resolve(Values{Command: []string{"rustc"}, EnvFiles: []string{envFile}}); err == nil {
		t.Fatal("expected error for env line without '='")
	}
}

func TestResolve_ParamFileExpansion(t *testing.T) {
	dir := t.TempDir()
	nested := writeLines(t, filepath.Join(dir, "nested.params"), "--extern", "foo=${pwd}/libfoo.rlib")
	params := writeLines(t, filepath.Join(dir, "rustc.params"), "--crate-type=lib", "@"+nested, "${pwd}/lib.rs")

	r := &Resolver{Getwd: fixedWd("/work")}
	inv, err := r.Resolve(Values{Command: []string{"rustc", "@" + params}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []string{"@" + params + ".expanded"}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Fatalf("Args = %v, want %v", inv.Args, want)
	}

	data, err := os.ReadFile(params + ".expanded")
	if err != nil {
		t.Fatalf("read expanded file: %v", err)
	}
	wantContent := "--crate-type=lib\n--extern\nfoo=/work/libfoo.rlib\n/work/lib.rs\n"
	if string(data) != wantContent {
		t.Errorf("expanded content = %q, want %q", data, wantContent)
	}
}

func TestResolve_ParamFileBlankLinesSkipped(t *testing.T) {
	params := filepath.Join(t.TempDir(), "rustc.params")
	if err := os.WriteFile(params, []byte("--crate-type=lib\n\nlib.rs\n"), 0o644); err != nil {
		t.Fatalf("write param file: %v", err)
	}

	if _, err := Resolve(Values{Command: []string{"rustc", "@" + params}}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	data, err := os.ReadFile(params + ".expanded")
	if err != nil {
		t.Fatalf("read expanded file: %v", err)
	}
	if want := "--crate-type=lib\nlib.rs\n"; string(data) != want {
		t.Errorf("expanded content = %q, want %q", data, want)
	}
}

func TestResolve_ParamFileCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.params")
	b := filepath.Join(dir, "b.params")
	writeLines(t, a, "@"+b)
	writeLines(t, b, "@"+a)

	if _, err := Resolve(Values{Command: []string{"rustc", "@" + a}}); err == nil {
		t.Fatal("expected error for param file cycle")
	}
}

func TestResolve_UnstableFeatures(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		require bool
		want    []string
	}{
		{"not required", []string{"lib.rs"}, false, []string{"lib.rs"}},
		{"appended", []string{"lib.rs"}, true, []string{"lib.rs", "-Zallow-features="}},
		{"already present", []string{"-Zallow-features=proc_macro_span"}, true, []string{"-Zallow-features=proc_macro_span"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Resolve(Values{
				Command:                         append([]string{"rustc"}, tt.args...),
				RequireExplicitUnstableFeatures: tt.require,
			})
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if !reflect.DeepEqual(inv.Args, tt.want) {
				t.Errorf("Args = %v, want %v", inv.Args, tt.want)
			}
		})
	}
}

func TestResolve_CopyOutput(t *testing.T) {
	r := &Resolver{Getwd: fixedWd("/work")}
	inv, err := r.Resolve(Values{Command: []string{"rustc"}, CopyOutput: "${pwd}/a.rlib,out/a.rlib"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := &types.CopyPair{Source: "/work/a.rlib", Destination: "out/a.rlib"}
	if !reflect.DeepEqual(inv.CopyOutput, want) {
		t.Errorf("CopyOutput = %+v, want %+v", inv.CopyOutput, want)
	}

	for _, bad := range []string{"only-source", "a,b,c", ",dest", "src,"} {
		if _, err := r.Resolve(Values{Command: []string{"rustc"}, CopyOutput: bad}); err == nil {
			t.Errorf("expected error for --copy-output %q", bad)
		}
	}
}

func TestResolve_FormatAndFiles(t *testing.T) {
	inv, err := Resolve(Values{
		Command:           []string{"rustc"},
		DiagnosticFormat:  "rendered",
		StopAfterMetadata: true,
		StdoutFile:        "out.txt",
		StderrFile:        "err.txt",
		OutputFile:        "diag.txt",
		TouchFile:         "done",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if inv.Format != types.DiagnosticFormatRendered || !inv.StopAfterMetadata {
		t.Errorf("Format = %q, StopAfterMetadata = %v", inv.Format, inv.StopAfterMetadata)
	}
	if inv.StdoutFile != "out.txt" || inv.StderrFile != "err.txt" || inv.OutputFile != "diag.txt" || inv.TouchFile != "done" {
		t.Errorf("files not carried through: %+v", inv)
	}
}

func TestResolve_InvalidFormat(t *testing.T) {
	if _, err := Resolve(Values{Command: []string{"rustc"}, DiagnosticFormat: "xml"}); err == nil {
		t.Fatal("expected error for unknown diagnostic format")
	}
}

func TestResolve_StopAfterMetadataWithoutFormat(t *testing.T) {
	inv, err := Resolve(Values{Command: []string{"rustc"}, StopAfterMetadata: true})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if inv.Format != types.DiagnosticFormatNone {
		t.Errorf("Format = %q, want none", inv.Format)
	}
}
