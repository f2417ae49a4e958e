package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/spf13/cobra"
)

var (
	toolsTrust float64
	toolsTier  int
	toolsFull  bool
	toolsAllow []string
)

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().Float64Var(&toolsTrust, "trust", 0, "Trust score")
	toolsCmd.Flags().IntVar(&toolsTier, "tier", 0, "Access tier")
	toolsCmd.Flags().BoolVar(&toolsFull, "full", false, "Full access flag")
	toolsCmd.Flags().StringSliceVar(&toolsAllow, "allow", nil, "Per-player allow list (comma separated)")
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools available for a set of capability axes",
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	axes := capability.Axes{AccessTier: toolsTier, TrustScore: toolsTrust, HasFullAccess: toolsFull}

	var allow []string
	if cmd.Flags().Changed("allow") {
		allow = toolsAllow
		if allow == nil {
			allow = []string{}
		}
	}

	tools := capability.Available(axes, capability.DefaultCatalog(), allow, nil)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ops=%t director=%t\n", axes.AllowOps(), axes.AllowDirector())
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range tools {
		var notes []string
		if t.WorldMutating {
			notes = append(notes, "experiment-gated at layer <= 1")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Tier, strings.Join(notes, ", "))
	}
	return tw.Flush()
}
