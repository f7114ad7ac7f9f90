package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"persona/internal/config"
	"persona/internal/persona"
)

// personasCmd lists the available persona definitions.
var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List available persona definitions",
	Long: `Lists the personas found in the personas directory (~/.persona/personas
by default). When the directory is empty the built-in fallback persona is
shown instead.`,
	RunE: runPersonas,
}

func runPersonas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := persona.NewRegistry(config.PersonasDir(resolveHome()))
	defs := registry.List()
	defaultDef := registry.Default(cfg.DefaultPersona)

	out := cmd.OutOrStdout()
	for _, def := range defs {
		marker := " "
		if def.Name == defaultDef.Name {
			marker = "*"
		}
		desc := def.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(out, "%s %-20s %s\n", marker, def.Name, desc)
	}
	fmt.Fprintf(out, "\n%d persona(s); * is the default. Definitions live in %s\n",
		len(defs), config.PersonasDir(resolveHome()))
	return nil
}
