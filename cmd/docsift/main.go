// Package main contains the docsift CLI commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/docsift/internal/cli"
	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/config"
	"github.com/Veraticus/docsift/internal/engine"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "docsift",
		Short: "📄 Document classification and validation engine",
		Long: `docsift detects the type of extracted document text (invoices, receipts,
contracts, bank statements, payment slips) with keyword and regex rules plus an
optional statistical model, and validates extracted fields against schemas.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/docsift/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("patterns", "", "directory of pattern records")
	flags.String("schemas", "", "directory of validation schemas")
	flags.String("model", "", "path to a trained model artifact")
	flags.Bool("record", false, "record runs in the journal")

	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("patterns.dir", flags.Lookup("patterns"))
	_ = viper.BindPFlag("schemas.dir", flags.Lookup("schemas"))
	_ = viper.BindPFlag("model.path", flags.Lookup("model"))
	_ = viper.BindPFlag("journal.enabled", flags.Lookup("record"))

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(schemasCmd())
	rootCmd.AddCommand(patternsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Commands install their own interrupt handling.
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/docsift", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DOCSIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if _, err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// loadConfig resolves the typed configuration from viper.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, common.NewUserError("invalid configuration", err)
	}
	return cfg, nil
}

// openEngine builds the engine from configuration. The caller closes it.
func openEngine(ctx context.Context) (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return engine.Open(ctx, cfg, slog.Default())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docsift %s\n", version)
		},
	}
}
