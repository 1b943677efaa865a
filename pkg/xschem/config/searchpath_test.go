package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRC(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writeRC: %v", err)
	}
	return path
}

func TestParseSearchPathFileAppendsExistingDirs(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "xschem_library")
	if err := os.Mkdir(lib, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rc := writeRC(t, dir, "xschemrc", `
# comment, should be ignored
set XSCHEM_LIBRARY_PATH {}
append XSCHEM_LIBRARY_PATH :[file dirname [info script]]/xschem_library
`)

	got, err := ParseSearchPathFile(rc)
	if err != nil {
		t.Fatalf("ParseSearchPathFile: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 path, got %v", got)
	}
	want, _ := filepath.EvalSymlinks(lib)
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestParseSearchPathFileDropsMissingDirs(t *testing.T) {
	dir := t.TempDir()
	rc := writeRC(t, dir, "xschemrc", `
append XSCHEM_LIBRARY_PATH :/does/not/exist/anywhere
`)

	got, err := ParseSearchPathFile(rc)
	if err != nil {
		t.Fatalf("ParseSearchPathFile: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no paths, got %v", got)
	}
}

func TestParseSearchPathFileVariableExpansion(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "mylib")
	if err := os.Mkdir(lib, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rc := writeRC(t, dir, "xschemrc", `
set MYROOT {`+dir+`}
append XSCHEM_LIBRARY_PATH :${MYROOT}/mylib
`)

	got, err := ParseSearchPathFile(rc)
	if err != nil {
		t.Fatalf("ParseSearchPathFile: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 path, got %v", got)
	}
	want, _ := filepath.EvalSymlinks(lib)
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestParseSearchPathFileEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "envlib")
	if err := os.Mkdir(lib, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Setenv("XSCHEMNETGEN_TEST_ROOT", dir)

	rc := writeRC(t, dir, "xschemrc", `
append XSCHEM_LIBRARY_PATH :$env(XSCHEMNETGEN_TEST_ROOT)/envlib
`)

	got, err := ParseSearchPathFile(rc)
	if err != nil {
		t.Fatalf("ParseSearchPathFile: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 path, got %v", got)
	}
	want, _ := filepath.EvalSymlinks(lib)
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestParseSearchPathFileResetClearsPrior(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	for _, p := range []string{a, b} {
		if err := os.Mkdir(p, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	rc := writeRC(t, dir, "xschemrc", `
append XSCHEM_LIBRARY_PATH :`+a+`
set XSCHEM_LIBRARY_PATH {}
append XSCHEM_LIBRARY_PATH :`+b+`
`)

	got, err := ParseSearchPathFile(rc)
	if err != nil {
		t.Fatalf("ParseSearchPathFile: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 path after reset, got %v", got)
	}
	want, _ := filepath.EvalSymlinks(b)
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}
