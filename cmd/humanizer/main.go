package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-humanizer/internal/apierr"
	"github.com/alnah/go-humanizer/internal/cli"
	"github.com/alnah/go-humanizer/internal/config"
	"github.com/alnah/go-humanizer/internal/prompt"
	"github.com/alnah/go-humanizer/internal/usecase"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitUpstream   = 5
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	var verbose bool
	rootCmd := &cobra.Command{
		Use:     "humanizer",
		Short:   "Make AI-generated text read like a person wrote it",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env.Logger = cli.NewLogger(env.Stderr, verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")

	rootCmd.AddCommand(cli.ProcessCmd(env))
	rootCmd.AddCommand(cli.TransformCmd(env))
	rootCmd.AddCommand(cli.UseCasesCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))
	rootCmd.AddCommand(cli.ServeCmd(env))

	err := rootCmd.ExecuteContext(ctx)
	_ = env.Logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, apierr.Message(err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if apierr.IsCancelled(err) {
		return ExitInterrupt
	}

	// Cobra doesn't expose typed errors, so we check for known error message patterns.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	if errors.Is(err, apierr.ErrMissingCredential) || errors.Is(err, cli.ErrInvalidProvider) {
		return ExitSetup
	}

	if errors.Is(err, usecase.ErrUnknown) || errors.Is(err, prompt.ErrUnknownTask) ||
		errors.Is(err, cli.ErrEmptyInput) || errors.Is(err, cli.ErrInvalidTypoLevel) ||
		errors.Is(err, cli.ErrInvalidRetries) || errors.Is(err, cli.ErrFileNotFound) ||
		errors.Is(err, cli.ErrOutputExists) || errors.Is(err, cli.ErrPromptWithoutCustom) ||
		errors.Is(err, config.ErrUnknownKey) || errors.Is(err, config.ErrInvalidSyntax) {
		return ExitValidation
	}

	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, apierr.ErrTimeout) || errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, apierr.ErrBadRequest) || errors.Is(err, apierr.ErrUpstream) ||
		errors.Is(err, apierr.ErrMalformedResponse) || errors.Is(err, apierr.ErrTransport) {
		return ExitUpstream
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
var cobraUsageErrorPatterns = []string{
	"unknown command",        // Subcommand doesn't exist
	"unknown flag",           // Flag doesn't exist
	"unknown shorthand",      // Short flag doesn't exist
	"flag needs an argument", // Flag provided without value
	"invalid argument",       // Invalid flag value type
	"accepts ",               // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",      // Too few arguments
	"requires at most",       // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
