package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/spf13/cobra"
)

var personaFile string

var rootCmd = &cobra.Command{
	Use:   "logosctl",
	Short: "Inspect and validate Logos disclosure decisions",
	Long: "Resolves disclosure layers, lists the tools a player would see and\n" +
		"composes full narrator directives from turn request files, without\n" +
		"running the API service.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&personaFile, "personas", "", "Persona YAML overlay (default: embedded personas)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadPersonas() (*disclosure.PersonaSet, error) {
	return disclosure.LoadPersonas(personaFile)
}

// quietLogger keeps engine warnings on stderr so command output stays clean.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
