// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ssrn-abstracts CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/ssrn-abstracts/internal/logging"
	"github.com/pdiddy/ssrn-abstracts/internal/secrets"
	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultTimeout = 30 * time.Second

// loadedSecrets holds session credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is configured in PersistentPreRunE once flags are parsed.
var logger = zerolog.Nop()

// rootCmd is the base command for the ssrn-abstracts CLI.
var rootCmd = &cobra.Command{
	Use:   "ssrn-abstracts",
	Short: "List SSRN papers by JEL code and download their abstracts",
	Long: `ssrn-abstracts collects paper listings from SSRN's JEL classification
pages and downloads each paper's abstract.

The list command walks the listing pages for a JEL code and writes a list
file. The download command fetches the abstract of every paper in a list
file, one at a time, waiting 45 to 50 seconds between requests. Downloaded
abstracts can be indexed for full-text search or exported to a spreadsheet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(os.Stderr, viper.GetBool("verbose"))

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ssrn-abstracts.yaml or ~/.config/ssrn-abstracts/ssrn-abstracts.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().String("user-agent", "", "User-Agent header (default: a desktop browser string)")

	mustBind("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	mustBind("http.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	mustBind("http.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ssrn-abstracts")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ssrn-abstracts"))
		}
	}

	// SSRN_ABSTRACTS_HTTP_TIMEOUT sets http.timeout, and so on.
	viper.SetEnvPrefix("SSRN_ABSTRACTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// mustBind binds a flag to a viper key so values resolve as flag, then
// environment, then config file, then the flag default.
func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// httpConfig assembles shared HTTP settings from viper and secrets.
func httpConfig() types.HTTPConfig {
	cfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	secrets.ApplyHTTP(&cfg, loadedSecrets)
	return cfg
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
