package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/codegenie-labs/codegenie/internal/artifact"
	"github.com/codegenie-labs/codegenie/internal/branding"
	"github.com/codegenie-labs/codegenie/internal/catalog"
	"github.com/codegenie-labs/codegenie/internal/formatter"
	"github.com/codegenie-labs/codegenie/internal/manifest"
	"github.com/codegenie-labs/codegenie/internal/scaffold"
)

// runCLI executes a fresh command tree with an isolated home directory.
func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runCLIWithHome(t, t.TempDir(), stdin, args...)
}

// runCLIWithHome runs the command with HOME pointing at home, so tests can
// place a config file there first.
func runCLIWithHome(t *testing.T, home, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", home)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGenerateFunction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "add.py")

	stdout, _, err := runCLI(t, "", "generate", "-t", "function", "-n", "add",
		"-p", "a:int", "-p", "b:int:0", "-r", "int", "-l", "return a + b", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	assertContains(t, stdout, "Code saved to '"+path+"'")

	content := readFile(t, path)
	assertContains(t, content, "def add(a: int, b: int = 0) -> int:")
	assertContains(t, content, "    return a + b\n")
}

func TestGenerateDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	stdout, _, err := runCLI(t, "", "generate", "-t", "exception", "-n", "ShapeError", "--base", "ValueError")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	assertContains(t, stdout, "Code saved to 'ShapeError.py'")
	assertContains(t, readFile(t, filepath.Join(dir, "ShapeError.py")), "class ShapeError(ValueError):\n    pass\n")
}

func TestGenerateClassFromParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "point.py")

	_, _, err := runCLI(t, "", "generate", "-t", "class", "-n", "Point", "-p", "x:float", "-p", "y", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	content := readFile(t, path)
	assertContains(t, content, "class Point:")
	assertContains(t, content, "def __init__(self, x: float, y: Any):")
	assertContains(t, content, "self.y = y")
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(error) bool
	}{
		{
			name: "unknown kind",
			args: []string{"-t", "widget", "-n", "thing"},
			want: func(err error) bool { return errors.Is(err, artifact.ErrUnknownKind) },
		},
		{
			name: "parameter without name",
			args: []string{"-t", "function", "-n", "f", "-p", ":int", "-l", "pass"},
			want: isValidationError,
		},
		{
			name: "invalid function name",
			args: []string{"-t", "function", "-n", "2fast", "-l", "pass"},
			want: isValidationError,
		},
		{
			name: "overload logic missing without input",
			args: []string{"-t", "overload", "-n", "area", "--group", "r:float", "--no-input"},
			want: isValidationError,
		},
		{
			name: "more logic blocks than groups",
			args: []string{"-t", "overload", "-n", "area", "--group", "r:float", "-l", "a", "-l", "b"},
			want: isValidationError,
		},
		{
			name: "template subtype missing without input",
			args: []string{"-t", "nlp", "-n", "pipe", "--no-input"},
			want: isValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)

			_, _, err := runCLI(t, "", append([]string{"generate"}, tt.args...)...)
			if err == nil || !tt.want(err) {
				t.Fatalf("generate error = %v", err)
			}
			assertNoFiles(t, dir)
		})
	}
}

func TestGeneratePromptsForFunctionLogic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "double.py")

	_, stderr, err := runCLI(t, "x = a * 2\nreturn x\n.\n",
		"generate", "-t", "function", "-n", "double", "-p", "a:int", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	assertContains(t, stderr, "Enter the function logic")
	assertContains(t, readFile(t, path), "    x = a * 2\n    return x\n")
}

func TestGeneratePromptsForMissingOverloadLogic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "area.py")

	_, stderr, err := runCLI(t, "return w * h\n.\n",
		"generate", "-t", "overload", "-n", "area",
		"--group", "r:float", "--group", "w:int,h:int",
		"-l", "return 3.14159 * r * r", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	assertContains(t, stderr, "signature 2 (w:int,h:int)")

	content := readFile(t, path)
	assertContains(t, content, "def area(r: float):")
	assertContains(t, content, "elif isinstance(w, int) and isinstance(h, int):\n        return w * h")
}

func TestGenerateTemplateByCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trainer.py")

	_, stderr, err := runCLI(t, "quantum\nmodel-training\n",
		"generate", "-t", "ML", "-n", "trainer", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	assertContains(t, stderr, "Invalid choice")

	lib, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := readFile(t, path), lib.Lookup("ml", "model-training")+"\n"; got != want {
		t.Errorf("template content mismatch:\n%s", got)
	}
}

func TestGenerateUnknownSubtypeWritesPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.py")

	_, _, err := runCLI(t, "", "generate", "-t", "template", "--category", "ml", "--subtype", "quantum", "-n", "x", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if got := readFile(t, path); got != "# Template 'ml/quantum' is unavailable.\n" {
		t.Errorf("content = %q", got)
	}
}

func TestGenerateFormattingFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.py")

	_, stderr, err := runCLI(t, "", "generate", "-t", "function", "-n", "broken",
		"-l", `text = """never closed`, "-o", path)
	var fmtErr *formatter.FormattingError
	if !errors.As(err, &fmtErr) {
		t.Fatalf("generate error = %v, want FormattingError", err)
	}
	assertContains(t, stderr, `text = """never closed`)
	assertNoFiles(t, dir)
}

func TestGenerateWriteFailureEchoesCode(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "", "generate", "-t", "function", "-n", "f", "-l", "return 1",
		"-o", filepath.Join(blocker, "f.py"))
	var ioErr *scaffold.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("generate error = %v, want IOError", err)
	}
	assertContains(t, stdout, "def f():")
	if strings.Contains(stdout, "Code saved") {
		t.Error("success message printed after a failed write")
	}
}

func TestGenerateHonoursConfig(t *testing.T) {
	t.Setenv("CODEGENIE_INDENT_WIDTH", "2")
	t.Setenv("CODEGENIE_GENERIC_TYPE", "object")
	path := filepath.Join(t.TempDir(), "f.py")

	_, _, err := runCLI(t, "", "generate", "-t", "function", "-n", "f", "-p", "a", "-l", "return a", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	content := readFile(t, path)
	assertContains(t, content, "def f(a: object):")
	assertContains(t, content, "\n  return a\n")
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, branding.HomeDir())
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "config.yaml"), content)
}

func TestGenerateReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "indent_width: 2\n")
	path := filepath.Join(t.TempDir(), "f.py")

	_, stderr, err := runCLIWithHome(t, home, "", "generate", "-t", "function", "-n", "f", "-l", "return 1", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
	assertContains(t, readFile(t, path), "\n  return 1\n")
}

func TestMalformedConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "indent_width: [2\n")
	path := filepath.Join(t.TempDir(), "f.py")

	_, stderr, err := runCLIWithHome(t, home, "", "generate", "-t", "function", "-n", "f", "-l", "return 1", "-o", path)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	assertContains(t, stderr, "WARN")
	assertContains(t, stderr, "ignoring config file")
	assertContains(t, stderr, "config.yaml")
	assertContains(t, readFile(t, path), "\n    return 1\n")
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	writeFile(t, path, `output_dir: `+filepath.Join(dir, "out")+`
artifacts:
  - kind: function
    name: add
    params: ["a:int", "b:int"]
    returns: int
    logic: return a + b
  - kind: test
    name: add
    params: ["a:int", "b:int"]
    output: test_add.py
`)

	stdout, _, err := runCLI(t, "", "apply", path)
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if n := strings.Count(stdout, "Code saved to"); n != 2 {
		t.Errorf("saved %d files, want 2:\n%s", n, stdout)
	}
	assertContains(t, readFile(t, filepath.Join(dir, "out", "add.py")), "def add(a: int, b: int) -> int:")
	assertContains(t, readFile(t, filepath.Join(dir, "out", "test_add.py")), "assert add(0, 0) == EXPECTED_OUTPUT")
}

func TestApplyInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "artifacts:\n  - kind: widget\n    name: x\n")

	_, _, err := runCLI(t, "", "apply", path)
	var schemaErr *manifest.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("apply error = %v, want SchemaError", err)
	}
}

func TestApplyValidateOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.yaml")
	writeFile(t, path, "artifacts:\n  - kind: exception\n    name: Oops\n")

	stdout, _, err := runCLI(t, "", "apply", "--validate", path)
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}
	assertContains(t, stdout, "is valid (1 artifacts)")
	if _, err := os.Stat(filepath.Join(dir, "Oops.py")); !os.IsNotExist(err) {
		t.Error("--validate wrote a file")
	}
}

func TestTemplates(t *testing.T) {
	stdout, _, err := runCLI(t, "", "templates")
	if err != nil {
		t.Fatalf("templates error: %v", err)
	}
	assertContains(t, stdout, "CATEGORY")
	assertContains(t, stdout, "model-training")
	assertContains(t, stdout, "tokenizer")

	stdout, _, err = runCLI(t, "", "templates", "nlp", "--json")
	if err != nil {
		t.Fatalf("templates nlp error: %v", err)
	}
	var entries []templateEntry
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("decoding JSON output: %v", err)
	}
	for _, e := range entries {
		if e.Category != "nlp" {
			t.Errorf("entry from category %q in nlp listing", e.Category)
		}
	}

	if _, _, err := runCLI(t, "", "templates", "cooking"); err == nil {
		t.Error("templates expected error for unknown category")
	}
}

func TestConfigSetGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)

	run := func(args ...string) string {
		t.Helper()
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v error: %v", args, err)
		}
		return out.String()
	}

	assertContains(t, run("config", "set", "generic_type", "object"), "Set generic_type = object")
	if got := strings.TrimSpace(run("config", "get", "generic_type")); got != "object" {
		t.Errorf("config get = %q, want object", got)
	}
	assertContains(t, readFile(t, filepath.Join(home, ".codegenie", "config.yaml")), "generic_type: object")
	assertContains(t, run("config", "list"), "indent_width")

	if _, _, err := runCLI(t, "", "config", "get", "colour"); err == nil {
		t.Error("config get expected error for unknown key")
	}
}

func TestVersion(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"
	t.Cleanup(func() { buildVersion, buildCommit, buildDate = "", "", "" })

	stdout, _, err := runCLI(t, "", "version", "--short")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(stdout) != "1.2.3" {
		t.Errorf("version --short = %q", stdout)
	}

	stdout, _, _ = runCLI(t, "", "version")
	assertContains(t, stdout, "codegenie version 1.2.3 (commit: abc123")
}

func TestResolveKind(t *testing.T) {
	lib, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		selector     string
		wantKind     artifact.Kind
		wantCategory string
		wantErr      bool
	}{
		{"function", artifact.KindFunction, "", false},
		{" Class ", artifact.KindClass, "", false},
		{"ml", artifact.KindTemplate, "ml", false},
		{"NLP", artifact.KindTemplate, "nlp", false},
		{"widget", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			kind, category, err := resolveKind(tt.selector, lib)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveKind() error = %v, wantErr %v", err, tt.wantErr)
			}
			if kind != tt.wantKind || category != tt.wantCategory {
				t.Errorf("resolveKind() = %q, %q; want %q, %q", kind, category, tt.wantKind, tt.wantCategory)
			}
		})
	}
}

// --- helpers ---

func isValidationError(err error) bool {
	var ve *artifact.ValidationError
	return errors.As(err, &ve)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("output does not contain %q\n---\n%s", substr, content)
	}
}

func assertNoFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) > 0 {
		t.Errorf("%s has %d entries, want no file written", dir, len(entries))
	}
}
