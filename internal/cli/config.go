package cli

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-humanizer/internal/config"
	"github.com/alnah/go-humanizer/internal/usecase"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-humanizer/config with owner-only
permissions. Credentials in the environment take precedence over the file;
other settings fall back to the environment when the file omits them.

Supported settings:
  provider          Completion provider: deepseek, openai (env: HUMANIZER_PROVIDER)
  model             Model id for the provider (env: HUMANIZER_MODEL)
  use-case          Default use case (env: HUMANIZER_USE_CASE)
  deepseek-api-key  DeepSeek credential (env: DEEPSEEK_API_KEY)
  openai-api-key    OpenAI credential (env: OPENAI_API_KEY)
  listen            Address for "humanizer serve" (env: HUMANIZER_LISTEN)
  base-url          API base URL for compatible endpoints (env: HUMANIZER_BASE_URL)`,
		Example: `  humanizer config set deepseek-api-key sk-...
  humanizer config set use-case academic
  humanizer config get provider
  humanizer config list
  humanizer config unset openai-api-key`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))
	cmd.AddCommand(configUnsetCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

provider, use-case, listen and base-url are validated before saving.
Credentials are echoed back masked.`,
		Example: `  humanizer config set deepseek-api-key sk-...
  humanizer config set provider openai
  humanizer config set listen 127.0.0.1:9000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the effective value to stdout, or nothing if not set.
Credentials are masked.`,
		Example: `  humanizer config get use-case`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable values.
Credentials are masked.`,
		Example: `  humanizer config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// configUnsetCmd creates the "config unset" subcommand.
func configUnsetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "unset <key>",
		Short:   "Remove a configuration value",
		Example: `  humanizer config unset deepseek-api-key`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigUnset(env, args[0])
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := validateConfigKey(key); err != nil {
		return err
	}

	value = strings.TrimSpace(value)

	// Key-specific validation.
	switch key {
	case config.KeyProvider:
		p, err := ParseProvider(value)
		if err != nil {
			return err
		}
		value = p.String()
	case config.KeyUseCase:
		uc, err := usecase.Parse(value)
		if err != nil {
			return err
		}
		value = uc.String()
	case config.KeyListen:
		if _, _, err := net.SplitHostPort(value); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", value, config.ErrInvalidSyntax)
		}
	case config.KeyBaseURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid base URL %q (want http(s)://host[/path]): %w", value, config.ErrInvalidSyntax)
		}
		value = strings.TrimSuffix(value, "/")
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, displayValue(key, value))
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if err := validateConfigKey(key); err != nil {
		return err
	}

	fileValue, err := config.Get(key)
	if err != nil {
		return err
	}
	value, _ := resolveValue(env, key, fileValue)

	if value != "" {
		fmt.Fprintln(env.Stdout, displayValue(key, value))
	}

	return nil
}

// runConfigList handles the "config list" command.
// Values go to stdout; the file location goes to stderr.
func runConfigList(env *Env) error {
	p, err := config.Path()
	if err != nil {
		return err
	}
	data, err := config.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Config file: %s\n", p)

	var lines []string
	for _, key := range config.Keys() {
		value, fromEnv := resolveValue(env, key, data[key])
		if value == "" {
			continue
		}
		line := fmt.Sprintf("%s=%s", key, displayValue(key, value))
		if fromEnv {
			line += " (from env)"
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, line := range lines {
		fmt.Fprintln(env.Stdout, line)
	}

	return nil
}

// runConfigUnset handles the "config unset" command.
func runConfigUnset(env *Env, key string) error {
	if err := validateConfigKey(key); err != nil {
		return err
	}

	if err := config.Unset(key); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Unset %s\n", key)
	if v := env.Getenv(config.EnvVar(key)); v != "" {
		fmt.Fprintf(env.Stderr, "Note: %s is still set in the environment\n", config.EnvVar(key))
	}
	return nil
}

// resolveValue applies the same precedence as config.Load:
// environment first for credentials, file first otherwise.
func resolveValue(env *Env, key, fileValue string) (value string, fromEnv bool) {
	envValue := env.Getenv(config.EnvVar(key))

	if config.IsSecret(key) && envValue != "" {
		return envValue, true
	}
	if fileValue != "" {
		return fileValue, false
	}
	return envValue, envValue != ""
}

// displayValue masks credentials.
func displayValue(key, value string) string {
	if config.IsSecret(key) {
		return config.Mask(value)
	}
	return value
}

func validateConfigKey(key string) error {
	if !config.IsValidKey(key) {
		return fmt.Errorf("%w %q (valid keys: %s)", config.ErrUnknownKey, key, strings.Join(config.Keys(), ", "))
	}
	return nil
}
