package cli

import (
	"fmt"

	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/spf13/cobra"
)

var personasRender bool

func init() {
	rootCmd.AddCommand(personasCmd)
	personasCmd.Flags().BoolVar(&personasRender, "render", false, "Render each template with sample values")
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List (and optionally render) the persona templates",
	RunE:  runPersonas,
}

func runPersonas(cmd *cobra.Command, args []string) error {
	set, err := loadPersonas()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sample := disclosure.PersonaData{Handle: "wren", SessionCount: 6}
	for l := disclosure.MinLayer; l <= disclosure.MaxLayer; l++ {
		p := set.Get(l)
		fmt.Fprintf(out, "layer %d: %s\n", int(l), p.Name)
		if personasRender {
			fmt.Fprintf(out, "%s\n\n", set.Render(l, sample))
		}
	}
	return nil
}
