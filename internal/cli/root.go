// Package cli implements the newsguard command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/logging"
	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/service"
)

// Version is set at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	userID  string
	logger  = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "newsguard",
	Short: "NewsGuard - verify news and social media posts for misinformation",
	Long: `NewsGuard checks news articles, forwarded texts, memes and images for
signs of misinformation.

It extracts headlines, searches the web for corroborating coverage, and asks
a language model to compare the claims against what it found. Every verdict
comes with the evidence it was based on.

NewsGuard assists judgement; it does not replace it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		l, err := logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of NewsGuard.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsguard %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.newsguard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "record results in this user's history (requires store.enabled)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and NEWSGUARD_* variables
func initConfig() {
	// A missing .env is normal
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".newsguard"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	// NEWSGUARD_LLM_MODEL overrides llm.model
	viper.SetEnvPrefix("NEWSGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range secretKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildService loads configuration and wires the service. The returned
// function must be called before exit.
func buildService(ctx context.Context) (*service.Service, *model.Config, func(), error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, nil, err
	}
	svc, closeFn, err := service.Build(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if err := closeFn(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}
	return svc, cfg, cleanup, nil
}
