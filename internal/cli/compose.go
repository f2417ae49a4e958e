package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jwebster45206/logos-engine/pkg/fourthwall"
	"github.com/jwebster45206/logos-engine/pkg/turn"
	"github.com/spf13/cobra"
)

var (
	composeSeed   uint64
	composeFixed  float64
	composeFormat string
)

func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.Flags().Uint64Var(&composeSeed, "seed", 1, "Seed for trigger jitter")
	composeCmd.Flags().Float64Var(&composeFixed, "fixed", -1, "Use a constant draw in [0,1] instead of a seeded source")
	composeCmd.Flags().StringVarP(&composeFormat, "format", "f", "text", "Output format (text|json)")
}

var composeCmd = &cobra.Command{
	Use:   "compose <turn.json>",
	Short: "Compose the narrator directive for a turn request file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompose,
}

func runCompose(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var req turn.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse turn request: %w", err)
	}

	personas, err := loadPersonas()
	if err != nil {
		return err
	}

	var rnd fourthwall.RandomSource = fourthwall.NewLockedSource(composeSeed)
	if composeFixed >= 0 {
		rnd = fourthwall.Constant(composeFixed)
	}

	engine := turn.NewEngine(personas, nil, nil, rnd, quietLogger())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := engine.Compose(ctx, &req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch composeFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		fmt.Fprintf(out, "# layer %d (%s), %d tools\n\n", int(resp.Layer), resp.LayerName, len(resp.Tools))
		fmt.Fprintln(out, resp.Directive)
		for _, w := range resp.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
	}
	return nil
}
