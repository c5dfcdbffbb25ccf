// Package config manages user-level settings stored at ~/.codegenie/config.yaml.
// It loads the file and CODEGENIE_* environment overrides through Viper and
// resolves them into an explicit Settings value that is handed to the
// generators, so no generation default lives in package-level state.
package config
