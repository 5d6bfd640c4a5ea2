package cli

import (
	"github.com/spf13/cobra"

	"github.com/alnah/go-humanizer/internal/pipeline"
	"github.com/alnah/go-humanizer/internal/transform"
)

// transformOptions holds validated options for the transform command.
type transformOptions struct {
	inputPath string
	output    string
	flags     transform.Flags
}

// TransformCmd creates the transform command (local dash and typo passes only).
// The env parameter provides injectable dependencies for testing.
func TransformCmd(env *Env) *cobra.Command {
	var (
		output       string
		typos        int
		removeDashes bool
	)

	cmd := &cobra.Command{
		Use:   "transform [file]",
		Short: "Normalize dashes or add typos without calling the API",
		Long: `Apply the local transformations only.

With no flags the text is written back unchanged. Dashes are normalized
before typos are injected.`,
		Example: `  humanizer transform essay.txt --remove-dashes
  echo "A careful, deliberate sentence" | humanizer transform --typos 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			flags, err := parseFlags(removeDashes, typos)
			if err != nil {
				return err
			}
			return runTransform(env, transformOptions{inputPath: input, output: output, flags: flags})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&typos, "typos", 0, "Synthetic typo level 0-5")
	cmd.Flags().BoolVarP(&removeDashes, "remove-dashes", "d", false, "Replace em/en dashes with spaced hyphens")

	return cmd
}

// runTransform executes the transform command with validated options.
func runTransform(env *Env, opts transformOptions) error {
	text, err := readInput(env, opts.inputPath)
	if err != nil {
		return err
	}
	return writeOutput(env, opts.output, pipeline.ApplyLocal(text, opts.flags, env.Rand))
}
