package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suncoast/sitegen/internal/config"
)

var (
	cfgFile   string
	verbose   bool
	appConfig config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Static site generator for service, city and article pages",
	Long: `sitegen builds the company website from typed content files:
page YAML under content/pages, per-city service templates under
content/localized and Markdown articles under content/articles.

Every page gets its sections and its schema.org JSON-LD from the same
content, so what visitors see and what search engines read cannot drift.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogger(); err != nil {
			return err
		}
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./site.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initLogger() error {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	d := config.Defaults()
	v.SetDefault("siteTitle", d.SiteTitle)
	v.SetDefault("outputDir", d.OutputDir)
	v.SetDefault("baseURL", "")
	v.SetDefault("contentDir", d.ContentDir)
	v.SetDefault("layoutsDir", d.LayoutsDir)
	v.SetDefault("staticDir", d.StaticDir)
	v.SetDefault("strictCost", false)
	for _, key := range []string{"name", "phone", "email", "street", "city", "postalCode", "logo", "priceRange", "license", "openingHours"} {
		v.SetDefault("business."+key, "")
	}
	v.SetDefault("business.country", d.Business.Country)
	v.SetDefault("business.region", d.Business.Region)
	v.SetDefault("business.areaServed", []string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("site")
		v.SetConfigType("yaml")
	}

	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return err
	}
	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := cmd.Flags().Lookup("output"); f != nil {
		if err := v.BindPFlag("outputDir", f); err != nil {
			return fmt.Errorf("failed to bind output flag: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
		logger.Info("No config file found, using defaults and environment")
	} else {
		logger.Debug("Using config file", zap.String("file", v.ConfigFileUsed()))
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return nil
}

// loadEnvFiles loads SITE_* variables from whichever of the files exist.
// Variables already set in the process environment win.
func loadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		logger.Debug("Loaded environment file", zap.String("file", p))
	}
	return nil
}
