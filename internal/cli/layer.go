package cli

import (
	"fmt"
	"strconv"

	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/spf13/cobra"
)

var layerOverride int

func init() {
	rootCmd.AddCommand(layerCmd)
	layerCmd.Flags().IntVar(&layerOverride, "override", 0, "Force a layer (clamped to 0-5)")
}

var layerCmd = &cobra.Command{
	Use:   "layer <trust>",
	Short: "Resolve the disclosure layer for a trust score",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayer,
}

func runLayer(cmd *cobra.Command, args []string) error {
	// Unparsable input counts as invalid trust, which resolves to layer 0.
	trust, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		trust = -1
	}

	var override *int
	if cmd.Flags().Changed("override") {
		override = &layerOverride
	}

	layer := disclosure.Resolve(trust, override)
	fmt.Fprintf(cmd.OutOrStdout(), "layer %d (%s)\n", int(layer), layer.Name())
	return nil
}
