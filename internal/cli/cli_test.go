package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/viewconf"
)

var fixtures = filepath.Join("..", "..", "viewconf", "testdata")

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	root := newRootCommand(&errb)
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errb.String(), err: err}
}

func TestSchemaCommand(t *testing.T) {
	r := run(t, "", "schema")
	if r.err != nil {
		t.Fatalf("schema: %v", r.err)
	}
	if !strings.HasPrefix(r.stdout, `{"$schema":"http://json-schema.org/draft-07/schema#","$id":"https://higlass.io/#viewconf","title":"HiGlass viewconf"`) {
		t.Fatalf("unexpected output %.120s", r.stdout)
	}
	want, _ := viewconf.SchemaJSON()
	if strings.TrimSuffix(r.stdout, "\n") != string(want) {
		t.Fatalf("command output differs from SchemaJSON")
	}

	r = run(t, "", "schema", "--indent", "2")
	if !strings.HasPrefix(r.stdout, "{\n  \"$schema\"") {
		t.Fatalf("unexpected indented output %.40q", r.stdout)
	}
	r = run(t, "", "schema", "--yaml")
	if !strings.HasPrefix(r.stdout, "$schema: ") {
		t.Fatalf("unexpected yaml output %.40q", r.stdout)
	}
}

func TestSchemaCommand_Output(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewconf.schema.json")
	r := run(t, "", "schema", "-o", path)
	if r.err != nil {
		t.Fatalf("schema: %v", r.err)
	}
	if r.stdout != "" {
		t.Fatalf("nothing is printed when writing a file: %q", r.stdout)
	}
	b, err := os.ReadFile(path)
	if err != nil || !bytes.Contains(b, []byte(`"definitions"`)) {
		t.Fatalf("schema file: %v", err)
	}
}

func TestCheckCommand_Valid(t *testing.T) {
	r := run(t, "", "check",
		filepath.Join(fixtures, "valid", "minimal.json"),
		filepath.Join(fixtures, "valid", "minimal.jsonc"),
		filepath.Join(fixtures, "valid", "minimal.yaml"),
		filepath.Join(fixtures, "valid", "locks.json"),
	)
	if r.err != nil {
		t.Fatalf("check: %v\n%s", r.err, r.stdout)
	}
	if strings.Count(r.stdout, iconSuccess) != 4 || !strings.Contains(r.stdout, "4 valid") {
		t.Fatalf("unexpected report:\n%s", r.stdout)
	}
	if !strings.Contains(r.stderr, "checked 4 files") {
		t.Fatalf("expected a progress log, got %q", r.stderr)
	}
}

func TestCheckCommand_Invalid(t *testing.T) {
	r := run(t, "", "check",
		filepath.Join(fixtures, "valid", "minimal.json"),
		filepath.Join(fixtures, "invalid", "extra-root-key.json"),
		filepath.Join(fixtures, "invalid", "lock-arity.json"),
	)
	if !errors.Is(r.err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", r.err)
	}
	for _, want := range []string{
		"/zoomfixed  unknown_key",
		"/zoomLocks/locksDict/zl/view1  too_short  expected array of length 3, got array",
		"2 of 3 invalid",
	} {
		if !strings.Contains(r.stdout, want) {
			t.Fatalf("report is missing %q:\n%s", want, r.stdout)
		}
	}
}

func TestCheckCommand_Stdin(t *testing.T) {
	doc := `{"views": [{"layout": {}, "tracks": {}}], "editable": true, "editable": false}`
	r := run(t, doc, "check", "-")
	if r.err != nil {
		t.Fatalf("check: %v", r.err)
	}
	r = run(t, doc, "check", "--duplicate-keys", "warn", "-")
	if r.err != nil {
		t.Fatalf("warnings do not fail the check: %v", r.err)
	}
	if !strings.Contains(r.stderr, "duplicate key") {
		t.Fatalf("expected a duplicate key warning, got %q", r.stderr)
	}
	r = run(t, doc, "check", "--duplicate-keys", "error", "-")
	if !errors.Is(r.err, errInvalid) || !strings.Contains(r.stdout, "/editable  duplicate_key") {
		t.Fatalf("expected a duplicate key issue, got %v\n%s", r.err, r.stdout)
	}
	r = run(t, "views: [{layout: {}, tracks: {}}]", "check", "--format", "yaml", "-")
	if r.err != nil {
		t.Fatalf("yaml stdin: %v", r.err)
	}
}

func TestCheckCommand_Errors(t *testing.T) {
	r := run(t, "", "check", filepath.Join(fixtures, "does-not-exist.json"))
	if r.err == nil || errors.Is(r.err, errInvalid) {
		t.Fatalf("expected a read error, got %v", r.err)
	}
	r = run(t, "{}", "check", "--format", "toml", "-")
	if r.err == nil || !strings.Contains(r.err.Error(), "unknown format") {
		t.Fatalf("expected an unknown format error, got %v", r.err)
	}
	if r := run(t, "", "check"); r.err == nil {
		t.Fatalf("check needs at least one file")
	}
}

func TestFmtCommand(t *testing.T) {
	r := run(t, "", "fmt", filepath.Join(fixtures, "valid", "minimal.yaml"))
	if r.err != nil {
		t.Fatalf("fmt: %v", r.err)
	}
	if !strings.HasPrefix(r.stdout, "{\n  \"editable\": true,") {
		t.Fatalf("unexpected output:\n%s", r.stdout)
	}
	if !strings.Contains(r.stdout, `"zoomLimits": [`) {
		t.Fatalf("defaults are written out:\n%s", r.stdout)
	}
	if _, err := viewconf.Parse(context.Background(), []byte(r.stdout)); err != nil {
		t.Fatalf("formatted output does not parse: %v", err)
	}
}

func TestFmtCommand_Write(t *testing.T) {
	src, err := os.ReadFile(filepath.Join(fixtures, "valid", "minimal.jsonc"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	path := filepath.Join(t.TempDir(), "minimal.jsonc")
	if err := os.WriteFile(path, src, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if r := run(t, "", "fmt", "-w", "--indent", "0", path); r.err != nil {
		t.Fatalf("fmt: %v", r.err)
	}
	b, _ := os.ReadFile(path)
	if bytes.Contains(b, []byte("rendering options")) {
		t.Fatalf("comments must be gone:\n%s", b)
	}
	if _, err := hgschema.DecodeJSON(b); err != nil {
		t.Fatalf("rewritten file is not plain JSON: %v", err)
	}
}

func TestFmtCommand_Invalid(t *testing.T) {
	r := run(t, "", "fmt", filepath.Join(fixtures, "invalid", "empty-views.json"))
	if !errors.Is(r.err, hgschema.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", r.err)
	}
}
