//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/codegenie-labs/codegenie/internal/config"
	"github.com/codegenie-labs/codegenie/internal/scaffold"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir      string // HOME, contains .codegenie/config.yaml
	TemplatesDir string // user templates merged over the built-in library
	ProjectDir   string // where generated files are written
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them so no real user configuration is read.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	env.TemplatesDir = filepath.Join(env.HomeDir, ".codegenie", "templates")
	t.Setenv("HOME", env.HomeDir)

	if err := os.MkdirAll(env.TemplatesDir, 0755); err != nil {
		t.Fatalf("creating templates dir: %v", err)
	}
	return env
}

// writeConfig writes ~/.codegenie/config.yaml with the given content.
func writeConfig(t *testing.T, env *testEnv, content string) {
	t.Helper()
	writeFile(t, filepath.Join(env.HomeDir, ".codegenie", "config.yaml"), content)
}

// loadSettings reads the config file written by writeConfig into a fresh
// viper instance.
func loadSettings(t *testing.T, env *testEnv) config.Settings {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigFile(filepath.Join(env.HomeDir, ".codegenie", "config.yaml"))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		t.Fatalf("reading config: %v", err)
	}
	return config.Resolve(v)
}

// newPipeline builds a pipeline from the sandboxed configuration.
func newPipeline(t *testing.T, env *testEnv) *scaffold.Pipeline {
	t.Helper()
	p, err := scaffold.FromSettings(loadSettings(t, env), nil)
	if err != nil {
		t.Fatalf("FromSettings: %v", err)
	}
	return p
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
