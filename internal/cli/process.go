package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-humanizer/internal/apierr"
	"github.com/alnah/go-humanizer/internal/config"
	"github.com/alnah/go-humanizer/internal/pipeline"
	"github.com/alnah/go-humanizer/internal/prompt"
	"github.com/alnah/go-humanizer/internal/transform"
	"github.com/alnah/go-humanizer/internal/usecase"
)

// Retry backoff for --retries.
const (
	defaultRetryBaseDelay = time.Second
	defaultRetryMaxDelay  = 30 * time.Second
)

// processOptions holds validated options for the process command.
type processOptions struct {
	inputPath    string
	output       string
	task         prompt.Task
	useCase      usecase.UseCase // zero = config or default
	customPrompt string
	provider     Provider // zero = config or default
	model        string
	baseURL      string
	flags        transform.Flags
	retries      int
	retryDelay   time.Duration
	local        bool
}

// ProcessCmd creates the process command.
// The env parameter provides injectable dependencies for testing.
func ProcessCmd(env *Env) *cobra.Command {
	var (
		output       string
		useCase      string
		customPrompt string
		task         string
		provider     string
		model        string
		baseURL      string
		typos        int
		retries      int
		removeDashes bool
		local        bool
	)

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Make text sound human",
		Long: `Rewrite text so it reads as if a person wrote it.

Reads from the file argument, or from stdin when no file (or "-") is given.
The text is sent to DeepSeek by default, or OpenAI with --provider openai.
Use --local to apply the built-in phrase rules without any network call.

Dash normalization (--remove-dashes) and synthetic typos (--typos 1-5) are
applied locally to the result.`,
		Example: `  humanizer process essay.txt -u academic
  pbpaste | humanizer process -u social --task rewrite
  humanizer process draft.md -p "Sound like a pirate" -o draft_human.md
  humanizer process notes.txt --local -u casual --remove-dashes --typos 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			opts, err := parseProcessOptions(input, output, useCase, customPrompt, task, provider, model, typos, retries, removeDashes, local)
			if err != nil {
				return err
			}
			opts.baseURL = baseURL
			return runProcess(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&useCase, "use-case", "u", "", "Use case: "+usecaseList())
	cmd.Flags().StringVarP(&customPrompt, "prompt", "p", "", "Custom instruction (implies --use-case custom)")
	cmd.Flags().StringVarP(&task, "task", "t", "", "Task framing: process, humanize, rewrite (default process)")
	cmd.Flags().StringVar(&provider, "provider", "", "Completion provider: deepseek, openai (default deepseek)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model id (default depends on provider)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL for OpenAI-compatible or self-hosted endpoints")
	cmd.Flags().IntVar(&typos, "typos", 0, "Synthetic typo level 0-5")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retry transient API failures up to N times")
	cmd.Flags().BoolVarP(&removeDashes, "remove-dashes", "d", false, "Replace em/en dashes with spaced hyphens")
	cmd.Flags().BoolVar(&local, "local", false, "Apply phrase rules locally instead of calling the API")

	return cmd
}

// parseProcessOptions validates and parses CLI inputs into processOptions.
// All parsing happens at the CLI boundary.
func parseProcessOptions(inputPath, output, useCase, customPrompt, task, provider, model string, typos, retries int, removeDashes, local bool) (processOptions, error) {
	parsedTask, err := prompt.ParseTask(task)
	if err != nil {
		return processOptions{}, err
	}

	var parsedUseCase usecase.UseCase
	if useCase != "" {
		parsedUseCase, err = usecase.Parse(useCase)
		if err != nil {
			return processOptions{}, err
		}
	} else if customPrompt != "" {
		parsedUseCase = usecase.Custom
	}
	if customPrompt != "" && !parsedUseCase.IsCustom() {
		return processOptions{}, fmt.Errorf("--prompt requires --use-case custom, got %q: %w", parsedUseCase, ErrPromptWithoutCustom)
	}

	var parsedProvider Provider
	if provider != "" {
		parsedProvider, err = ParseProvider(provider)
		if err != nil {
			return processOptions{}, err
		}
	}

	flags, err := parseFlags(removeDashes, typos)
	if err != nil {
		return processOptions{}, err
	}

	if retries < 0 {
		return processOptions{}, fmt.Errorf("--retries must be >= 0, got %d: %w", retries, ErrInvalidRetries)
	}

	return processOptions{
		inputPath:    inputPath,
		output:       output,
		task:         parsedTask,
		useCase:      parsedUseCase,
		customPrompt: customPrompt,
		provider:     parsedProvider,
		model:        model,
		flags:        flags,
		retries:      retries,
		retryDelay:   defaultRetryBaseDelay,
		local:        local,
	}, nil
}

// parseFlags validates the local transformation flags.
func parseFlags(removeDashes bool, typos int) (transform.Flags, error) {
	if typos < transform.MinTypoLevel || typos > transform.MaxTypoLevel {
		return transform.Flags{}, fmt.Errorf("--typos must be between %d and %d, got %d: %w",
			transform.MinTypoLevel, transform.MaxTypoLevel, typos, ErrInvalidTypoLevel)
	}
	return transform.Flags{RemoveDashes: removeDashes, TypoLevel: typos}, nil
}

// runProcess executes the process command with validated options.
func runProcess(ctx context.Context, env *Env, opts processOptions) error {
	// === READ INPUT ===

	text, err := readInput(env, opts.inputPath)
	if err != nil {
		return err
	}

	// === RESOLVE SETTINGS (flags > config > defaults) ===

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	uc, err := resolveUseCase(opts.useCase, cfg)
	if err != nil {
		return err
	}
	provider, err := resolveProvider(opts.provider, cfg)
	if err != nil {
		return err
	}
	model := opts.model
	if model == "" {
		model = cfg.Model
	}
	baseURL := opts.baseURL
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}

	// === TRANSFORM ===

	var base string
	if opts.local {
		fmt.Fprintf(env.Stderr, "Applying %s rules locally...\n", uc.Label())
		base = pipeline.Local(opts.task, text, uc)
	} else {
		fmt.Fprintf(env.Stderr, "Processing with %s (task: %s, use case: %s)...\n", provider, opts.task, uc.Label())
		completer := env.CompleterFactory.NewCompleter(provider, provider.APIKey(cfg), model, baseURL, env.Logger)
		svc := pipeline.New(completer, pipeline.WithLogger(env.Logger))

		call := func() (string, error) {
			return svc.Run(ctx, opts.task, text, uc, opts.customPrompt)
		}
		if opts.retries > 0 {
			base, err = apierr.RetryWithBackoff(ctx, apierr.RetryConfig{
				MaxRetries: opts.retries,
				BaseDelay:  opts.retryDelay,
				MaxDelay:   defaultRetryMaxDelay,
			}, call, apierr.IsRetryable)
		} else {
			base, err = call()
		}
		if err != nil {
			return err
		}
	}

	// === WRITE OUTPUT ===

	return writeOutput(env, opts.output, pipeline.ApplyLocal(base, opts.flags, env.Rand))
}

// resolveUseCase applies the config fallback. An invalid configured value is
// reported rather than silently replaced.
func resolveUseCase(flag usecase.UseCase, cfg config.Config) (usecase.UseCase, error) {
	if flag != "" {
		return flag, nil
	}
	uc, err := usecase.Parse(cfg.UseCase)
	if err != nil {
		return "", fmt.Errorf("config %s: %w", config.KeyUseCase, err)
	}
	return uc, nil
}

// resolveProvider applies the config fallback and the DeepSeek default.
func resolveProvider(flag Provider, cfg config.Config) (Provider, error) {
	if !flag.IsZero() {
		return flag, nil
	}
	if cfg.Provider == "" {
		return DeepSeekProvider, nil
	}
	p, err := ParseProvider(cfg.Provider)
	if err != nil {
		return Provider{}, fmt.Errorf("config %s: %w", config.KeyProvider, err)
	}
	return p, nil
}
