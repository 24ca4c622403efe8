// Package cli implements the photovocalizer command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Brownie44l1/photovocalizer/internal/config"
	"github.com/Brownie44l1/photovocalizer/internal/logger"
	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// cfg and appLog are set up before any subcommand runs
	cfg    *config.Config
	appLog *logger.Logger

	envFile   string
	modelPath string
)

var rootCmd = &cobra.Command{
	Use:           "photovocalizer",
	Short:         "Fruit photo classifier with Polish voice commands",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load(envFile)
		if modelPath != "" {
			cfg.ModelPath = modelPath
		}

		var err error
		appLog, err = logger.NewLogger(cfg.LogDirectory)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLog != nil {
			appLog.Close()
		}
	},
}

func Execute() {
	// Ctrl+C and SIGTERM cancel the command context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		die("Command failed", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to read settings from")
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "Model file (.onnx or .tflite), overrides MODEL_PATH")
}

// die prints a fatal error and exits.
func die(context string, err error) {
	fmt.Fprintf(os.Stderr, "\n---------------------------------------------------------\n")
	fmt.Fprintf(os.Stderr, "🚨 PHOTOVOCALIZER ERROR: %s\n", context)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DETAILS: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "---------------------------------------------------------\n")
	os.Exit(1)
}
