package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/codegenie-labs/codegenie/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys understood by Resolve.
const (
	KeyIndentWidth         = "indent_width"
	KeyMaxLineLength       = "max_line_length"
	KeyGenericType         = "generic_type"
	KeyBaseException       = "base_exception"
	KeyExpectedPlaceholder = "expected_placeholder"
	KeyTargetVersion       = "target_version"
	KeyExtension           = "extension"
	KeyTemplatesDir        = "templates_dir"
)

// Settings holds every tunable the generation pipeline consumes.
type Settings struct {
	IndentWidth         int
	MaxLineLength       int
	GenericType         string
	BaseException       string
	ExpectedPlaceholder string
	TargetVersion       string
	Extension           string
	TemplatesDir        string
}

// Defaults returns the built-in settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		IndentWidth:         4,
		MaxLineLength:       79,
		GenericType:         "Any",
		BaseException:       "Exception",
		ExpectedPlaceholder: "EXPECTED_OUTPUT",
		TargetVersion:       "3.11",
		Extension:           branding.SourceExtension(),
		TemplatesDir:        filepath.Join(Dir(), "templates"),
	}
}

// Dir returns the path to the config directory (~/.codegenie/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.codegenie/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// SetDefaults registers the built-in settings on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyIndentWidth, d.IndentWidth)
	v.SetDefault(KeyMaxLineLength, d.MaxLineLength)
	v.SetDefault(KeyGenericType, d.GenericType)
	v.SetDefault(KeyBaseException, d.BaseException)
	v.SetDefault(KeyExpectedPlaceholder, d.ExpectedPlaceholder)
	v.SetDefault(KeyTargetVersion, d.TargetVersion)
	v.SetDefault(KeyExtension, d.Extension)
	v.SetDefault(KeyTemplatesDir, d.TemplatesDir)
}

// Load initializes the global Viper instance from the config file and
// environment. A missing config file is not an error. When the file exists
// but cannot be read or parsed, the defaults and environment still apply and
// the read error is returned.
func Load() error {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	SetDefaults(viper.GetViper())

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("reading config file %s: %w", FilePath(), err)
}

// Resolve reads Settings out of v. Invalid numeric values fall back to the
// defaults rather than producing unusable indentation.
func Resolve(v *viper.Viper) Settings {
	d := Defaults()
	s := Settings{
		IndentWidth:         v.GetInt(KeyIndentWidth),
		MaxLineLength:       v.GetInt(KeyMaxLineLength),
		GenericType:         v.GetString(KeyGenericType),
		BaseException:       v.GetString(KeyBaseException),
		ExpectedPlaceholder: v.GetString(KeyExpectedPlaceholder),
		TargetVersion:       v.GetString(KeyTargetVersion),
		Extension:           v.GetString(KeyExtension),
		TemplatesDir:        v.GetString(KeyTemplatesDir),
	}
	if s.IndentWidth <= 0 {
		s.IndentWidth = d.IndentWidth
	}
	if s.MaxLineLength <= 0 {
		s.MaxLineLength = d.MaxLineLength
	}
	if s.GenericType == "" {
		s.GenericType = d.GenericType
	}
	if s.BaseException == "" {
		s.BaseException = d.BaseException
	}
	if s.ExpectedPlaceholder == "" {
		s.ExpectedPlaceholder = d.ExpectedPlaceholder
	}
	if s.Extension == "" {
		s.Extension = d.Extension
	}
	return s
}

// Current resolves Settings from the global Viper instance.
func Current() Settings {
	return Resolve(viper.GetViper())
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Keys returns every known key in sorted order.
func Keys() []string {
	keys := []string{
		KeyIndentWidth, KeyMaxLineLength, KeyGenericType, KeyBaseException,
		KeyExpectedPlaceholder, KeyTargetVersion, KeyExtension, KeyTemplatesDir,
	}
	sort.Strings(keys)
	return keys
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
