package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/logos-engine/pkg/disclosure"
)

// ConsoleConfig holds the inspector's startup settings.
type ConsoleConfig struct {
	PersonaFile string
	RequestFile string
}

func main() {
	cfg := &ConsoleConfig{
		PersonaFile: getEnv("PERSONA_FILE", ""),
	}
	if len(os.Args) > 1 {
		cfg.RequestFile = os.Args[1]
	}

	personas := disclosure.DefaultPersonas()
	if cfg.PersonaFile != "" {
		var err error
		personas, err = disclosure.LoadPersonas(cfg.PersonaFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load personas: %v\n", err)
			os.Exit(1)
		}
	}

	req, err := loadRequest(cfg.RequestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load turn request: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewInspector(personas, req),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
