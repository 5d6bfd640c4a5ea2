package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alnah/go-humanizer/internal/usecase"
)

// UseCasesCmd creates the use-cases command.
func UseCasesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "use-cases",
		Short:   "List the available use cases",
		Example: `  humanizer use-cases`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUseCases(env)
		},
	}
}

func runUseCases(env *Env) error {
	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tDESCRIPTION")
	for _, u := range usecase.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u, u.Label(), u.Description())
	}
	return tw.Flush()
}

// usecaseList returns the names for flag help text.
func usecaseList() string {
	return strings.Join(usecase.Names(), ", ")
}
