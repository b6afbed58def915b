package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/filtering"
	"github.com/spigell/research-matcher/internal/logger"
	"github.com/spigell/research-matcher/internal/metrics"
	"github.com/spigell/research-matcher/internal/poller"
	"github.com/spigell/research-matcher/internal/researchapi"
	"github.com/spigell/research-matcher/internal/session"
)

const onboardingHint = "complete your student profile and set it with --student or RM_STUDENT"

// environment is what every command needs before talking to the API.
type environment struct {
	logger    *zap.Logger
	config    *Config
	client    *researchapi.Client
	collector *metrics.Collector
}

func setup() *environment {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the research-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	token, err := session.LoadToken(session.Source{
		Name:     "api token",
		Value:    config.Token,
		File:     config.TokenFile,
		Optional: true,
	})
	if err != nil {
		logger.Fatal(
			"loading api token",
			zap.Error(err),
			zap.String("hint", "set RM_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	collector := metrics.New()

	client := researchapi.New(logger, token)
	client.APIURL = config.APIURL
	client.HTTPClient.Timeout = config.RequestTimeout
	client.Observer = collector
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return &environment{
		logger:    logger,
		config:    config,
		client:    client,
		collector: collector,
	}
}

// subject resolves the configured student. A missing or malformed id ends the
// command with the onboarding hint.
func (e *environment) subject() (string, bool) {
	studentID, err := session.ResolveSubject(e.config.Student)
	if err != nil {
		if errors.Is(err, session.ErrNoSubject) {
			e.logger.Info("exiting", zap.String("reason", err.Error()), zap.String("hint", onboardingHint))
			return "", false
		}
		e.logger.Fatal("resolving student", zap.Error(err))
	}

	return studentID, true
}

func (e *environment) pollConfig() poller.Config {
	return poller.Config{
		Interval: e.config.PollInterval,
		Timeout:  e.config.RequestTimeout,
	}
}

func (e *environment) filtersConfig() *filtering.Config {
	return &filtering.Config{
		MinScore:           e.config.Filters.MinScore,
		ExcludedProfessors: e.config.Filters.ExcludedProfessors,
		ExcludeFile:        e.config.ExcludeFile,
	}
}
