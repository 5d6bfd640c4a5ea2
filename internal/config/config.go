// Package config reads and writes the persistent key=value settings file and
// merges it with environment variables.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Config keys.
const (
	KeyProvider       = "provider"
	KeyModel          = "model"
	KeyUseCase        = "use-case"
	KeyDeepSeekAPIKey = "deepseek-api-key"
	KeyOpenAIAPIKey   = "openai-api-key"
	KeyListen         = "listen"
	KeyBaseURL        = "base-url"
)

// Environment variables. Credentials override the file; the others are
// fallbacks used only when the file omits the key.
const (
	EnvDeepSeekAPIKey = "DEEPSEEK_API_KEY"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvProvider       = "HUMANIZER_PROVIDER"
	EnvModel          = "HUMANIZER_MODEL"
	EnvUseCase        = "HUMANIZER_USE_CASE"
	EnvListen         = "HUMANIZER_LISTEN"
	EnvBaseURL        = "HUMANIZER_BASE_URL"
)

// Sentinel errors.
var (
	// ErrUnknownKey indicates a key outside the supported set.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidSyntax indicates a config line without an equals sign.
	ErrInvalidSyntax = errors.New("invalid config syntax")
)

// keyEnv maps each key to its environment variable, in display order.
var keyEnv = []struct {
	key, env string
	secret   bool
}{
	{KeyProvider, EnvProvider, false},
	{KeyModel, EnvModel, false},
	{KeyUseCase, EnvUseCase, false},
	{KeyDeepSeekAPIKey, EnvDeepSeekAPIKey, true},
	{KeyOpenAIAPIKey, EnvOpenAIAPIKey, true},
	{KeyListen, EnvListen, false},
	{KeyBaseURL, EnvBaseURL, false},
}

// Config holds user configuration loaded from ~/.config/go-humanizer/config.
// Values are raw strings; callers validate them.
type Config struct {
	Provider       string
	Model          string
	UseCase        string
	DeepSeekAPIKey string
	OpenAIAPIKey   string
	Listen         string
	BaseURL        string
}

// Keys returns the supported keys in display order.
func Keys() []string {
	keys := make([]string, len(keyEnv))
	for i, k := range keyEnv {
		keys[i] = k.key
	}
	return keys
}

// IsValidKey reports whether key is supported.
func IsValidKey(key string) bool {
	return slices.Contains(Keys(), key)
}

// IsSecret reports whether key holds a credential.
func IsSecret(key string) bool {
	for _, k := range keyEnv {
		if k.key == key {
			return k.secret
		}
	}
	return false
}

// EnvVar returns the environment variable for key, or "" if none.
func EnvVar(key string) string {
	for _, k := range keyEnv {
		if k.key == key {
			return k.env
		}
	}
	return ""
}

// Mask hides all but the last four characters of a credential.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	r := []rune(value)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", 8) + string(r[len(r)-4:])
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-humanizer.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "go-humanizer"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "go-humanizer"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Returns an empty Config if the file doesn't exist (not an error).
// On a read error the environment values are still returned with it.
func Load() (Config, error) {
	return LoadWithEnv(os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(getenv func(string) string) (Config, error) {
	var cfg Config

	// A broken or unreachable file still yields the environment values
	// alongside the error.
	var data map[string]string
	var readErr error
	if p, err := path(); err != nil {
		readErr = err
	} else if data, err = parseFile(p); err != nil {
		data = nil
		if !os.IsNotExist(err) {
			readErr = fmt.Errorf("failed to read config: %w", err)
		}
	}

	value := func(key string) string {
		if IsSecret(key) {
			if v := getenv(EnvVar(key)); v != "" {
				return v
			}
			return data[key]
		}
		if v := data[key]; v != "" {
			return v
		}
		return getenv(EnvVar(key))
	}

	cfg.Provider = value(KeyProvider)
	cfg.Model = value(KeyModel)
	cfg.UseCase = value(KeyUseCase)
	cfg.DeepSeekAPIKey = value(KeyDeepSeekAPIKey)
	cfg.OpenAIAPIKey = value(KeyOpenAIAPIKey)
	cfg.Listen = value(KeyListen)
	cfg.BaseURL = value(KeyBaseURL)
	return cfg, readErr
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w at line %d", ErrInvalidSyntax, lineNum)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return update(func(data map[string]string) {
		data[key] = value
	})
}

// Unset removes key from the config file. Removing an absent key is not an error.
func Unset(key string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return update(func(data map[string]string) {
		delete(data, key)
	})
}

// update applies fn to the current file contents and writes them back.
func update(fn func(map[string]string)) error {
	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if existing == nil {
		existing = make(map[string]string)
	}

	fn(existing)
	return writeFile(p, existing)
}

// writeFile writes the config map with owner-only permissions since it may
// hold credentials. Keys are sorted for stable output.
func writeFile(p string, data map[string]string) error {
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600) // #nosec G304 -- path from home dir
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// OpenFile keeps the mode of an existing file.
	if err := f.Chmod(0600); err != nil {
		return fmt.Errorf("cannot restrict config file permissions: %w", err)
	}

	for _, key := range slices.Sorted(maps.Keys(data)) {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all config file values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// Path returns the config file path.
func Path() (string, error) {
	return path()
}
