package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/research-matcher/internal/poller"
	"github.com/spigell/research-matcher/internal/researchapi"
)

const (
	app       = "research-matcher"
	envPrefix = "RM"
)

type Config struct {
	APIURL         string        `mapstructure:"api-url" validate:"required,url"`
	Token          string        `mapstructure:"token" json:"-"`
	TokenFile      string        `mapstructure:"token-file"`
	Student        string        `mapstructure:"student"`
	UserAgent      string        `mapstructure:"user-agent"`
	PollInterval   time.Duration `mapstructure:"poll-interval" validate:"min=1s"`
	RequestTimeout time.Duration `mapstructure:"request-timeout" validate:"min=1s,max=2m"`
	UseAI          bool          `mapstructure:"use-ai"`
	ExcludeFile    string        `mapstructure:"exclude-file"`
	MetricsAddr    string        `mapstructure:"metrics-addr" validate:"omitempty,hostname_port"`
	Filters        FiltersConfig `mapstructure:"filters"`
}

type FiltersConfig struct {
	MinScore           float64  `mapstructure:"min-score" validate:"gte=0,lte=100"`
	ExcludedProfessors []string `mapstructure:"excluded-professors"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "research-matcher is a cli for browsing student/professor research matches",
	}

	validate = validator.New()
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is research-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("student", "s", "", "student id to show matches for")
	rootCmd.PersistentFlags().String("api-url", researchapi.DefaultAPIURL, "research matching API base url")

	for _, name := range []string{"debug", "json", "student", "api-url"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api-url", researchapi.DefaultAPIURL)
	v.SetDefault("poll-interval", poller.DefaultInterval)
	v.SetDefault("request-timeout", researchapi.DefaultTimeout)
	v.SetDefault("use-ai", true)
	v.SetDefault("filters.min-score", 0)
	// Keys below have no default but must be known to viper to be read from the environment.
	for _, key := range []string{"token", "token-file", "student", "user-agent", "exclude-file", "metrics-addr"} {
		v.SetDefault(key, "")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The config file is optional unless it is given explicitly.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	config.APIURL = strings.TrimRight(strings.TrimSpace(config.APIURL), "/")

	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
