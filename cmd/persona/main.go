package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"persona/internal/config"
	"persona/internal/logging"
)

var (
	// Global flags
	verbose     bool
	apiKeyFlag  string
	homeFlag    string
	personaFlag string
	timeout     time.Duration

	// Logger for non-interactive commands. The chat TUI uses the
	// categorized file logger instead so log lines never corrupt the
	// alternate screen.
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "persona - configurable AI chat companions in your terminal",
	Long: `persona is a terminal chat client for configurable AI characters.

Assistant replies are classified for structured content (CSV tables, PDF
links, references, checklists) and interactive directives (tappable
keywords, action buttons, memory directives), which render as widgets in
the chat view.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive chat owns the terminal; it logs to files only.
		if cmd.Use == "persona" && cmd.CalledAs() == "persona" {
			return logging.Initialize(resolveHome())
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return logging.Initialize(resolveHome())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch interactive chat
		return runChat()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Backend API key (or set PERSONA_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Persona home directory (default: ~/.persona)")
	rootCmd.PersistentFlags().StringVarP(&personaFlag, "persona", "p", "", "Persona to chat with (default from config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(memoryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveHome applies the --home flag over the configured default.
func resolveHome() string {
	if homeFlag != "" {
		return homeFlag
	}
	return config.DefaultHome()
}

// loadConfig loads the user config with the --api-key flag layered on top.
func loadConfig() (*config.UserConfig, error) {
	cfg, err := config.Load(resolveHome())
	if err != nil {
		return nil, err
	}
	if apiKeyFlag != "" {
		cfg.APIKey = apiKeyFlag
	}
	return cfg, nil
}
