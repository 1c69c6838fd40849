// Command subscout detects subscriptions and anomalous charges in personal
// financial statements.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subscout/subscout/internal/common"
	"github.com/subscout/subscout/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "subscout",
		Short: "Subscription and recurring-charge detector for bank statements",
		Long: `subscout ingests financial statements, resolves merchant identities,
and classifies repeated charges as subscriptions versus ordinary recurring
spending, flagging anomalous amounts along the way.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/subscout/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("db", "", "database path (default: $HOME/.local/share/subscout/subscout.db)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(brandsCmd())
	rootCmd.AddCommand(exportLabelsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received interrupt signal, shutting down")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err == nil {
		return
	}

	// Operator-facing failures print a plain message; the underlying cause
	// goes to the structured log.
	var ue *common.UserError
	if errors.As(err, &ue) {
		if ue.Err != nil {
			common.LogError(ue.Err, "command failed", common.Fields{"detail": ue.UserMessage})
		}
		fmt.Fprintln(os.Stderr, ue.UserMessage)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(fmt.Sprintf("%s/.config/subscout", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SUBSCOUT")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())
	viper.SetDefault("models.dir", "models")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults.
	}

	return setupLogging()
}

func setupLogging() error {
	var level slog.Level
	switch viper.GetString("logging.level") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	format := "console"
	if viper.GetString("logging.format") == "json" {
		format = "json"
	}
	return common.SetupLogger(level, format)
}

func defaultDBPath() (string, error) {
	if p := viper.GetString("database.path"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return fmt.Sprintf("%s/.local/share/subscout/subscout.db", home), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the subscout version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("subscout %s\n", version)
		},
	}
}
