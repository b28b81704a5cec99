package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skillmatch/internal/matching"
)

const (
	app       = "skillmatch"
	envPrefix = "SKILLMATCH"
)

type Config struct {
	Dataset     string          `mapstructure:"dataset"`
	Matching    matching.Config `mapstructure:",squash"`
	Exclude     *ExcludeConfig  `mapstructure:"exclude"`
	ExcludeFile string          `mapstructure:"exclude-file"`
	Export      *ExportConfig   `mapstructure:"export"`
	AI          *AIConfig       `mapstructure:"ai"`
}

type ExcludeConfig struct {
	Candidates []string `mapstructure:"candidates"`
	Requesters []string `mapstructure:"requesters"`
}

type ExportConfig struct {
	CSV string `mapstructure:"csv"`
}

type AIConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Provider   string        `mapstructure:"provider"`
	MaxReviews int           `mapstructure:"max-reviews"`
	Parallel   int           `mapstructure:"parallel"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillmatch assigns candidates to open positions with a greedy one-to-one matcher",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	defaults := matching.DefaultConfig()

	viper.SetDefault("min-score", defaults.MinScore)
	viper.SetDefault("tie-epsilon", defaults.TieEpsilon)
	viper.SetDefault("index-epsilon", defaults.IndexEpsilon)
	viper.SetDefault("top-k", defaults.TopK)
	viper.SetDefault("weights.skill", defaults.Weights.Skill)
	viper.SetDefault("weights.experience", defaults.Weights.Experience)
	viper.SetDefault("weights.location", defaults.Weights.Location)
	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.max-reviews", 10)
	viper.SetDefault("ai.parallel", 2)
}

func initConfig() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	// seed has no default, so AutomaticEnv alone would not reach Unmarshal.
	if err := viper.BindEnv("seed"); err != nil {
		log.Fatalf("binding %s_SEED environment variable: %v", envPrefix, err)
	}

	// version needs no configuration.
	if runCmd.CalledAs() == "" && seedsCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The built-in sample runs without a config file; a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

// redacted returns a copy safe to log.
func (c *Config) redacted() *Config {
	cp := *c
	if c.AI != nil && c.AI.Gemini != nil && c.AI.Gemini.APIKey != "" {
		aiCfg := *c.AI
		gemini := *c.AI.Gemini
		gemini.APIKey = "***"
		aiCfg.Gemini = &gemini
		cp.AI = &aiCfg
	}
	return &cp
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{Matching: matching.DefaultConfig()}
	}

	return config, nil
}
