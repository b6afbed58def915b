package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/dashboard"
	"github.com/spigell/research-matcher/internal/logger"
	"github.com/spigell/research-matcher/internal/poller"
	"github.com/spigell/research-matcher/internal/researchapi"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Ask the backend to compute matches for a student",
	Run: func(cmd *cobra.Command, _ []string) {
		runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Bool("use-ai", true, "let the backend enhance scores with AI")
	generateCmd.Flags().BoolP("wait", "w", false, "follow the matching job and print the dashboard when it ends")

	viper.BindPFlag("use-ai", generateCmd.Flags().Lookup("use-ai"))
}

func runGenerate(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := setup()

	studentID, ok := env.subject()
	if !ok {
		return
	}

	wait, _ := cmd.Flags().GetBool("wait")
	if !wait {
		if err := env.client.GenerateMatches(ctx, studentID, env.config.UseAI); err != nil {
			env.logger.Fatal("requesting matches generation", zap.Error(err))
		}
		env.logger.Info("matches generation requested", zap.Bool("use_ai", env.config.UseAI))
		return
	}

	controller := dashboard.NewController(env.client, studentID, dashboard.Options{
		Filters:      env.filtersConfig(),
		Poll:         env.pollConfig(),
		TickObserver: env.collector,
	}, env.logger)

	controller.OnChange(func(s dashboard.Snapshot) {
		if s.Job != nil && s.Job.Status == researchapi.JobInProgress {
			env.logger.Info("matching in progress", logger.JobStatus(string(s.Job.Status)), zap.Int("progress", s.Job.Progress))
		}
	})

	err := controller.Generate(ctx, env.config.UseAI)
	switch {
	case errors.Is(err, poller.ErrNotStarted):
		env.logger.Warn("matching job did not start in time, showing current matches")
	case err != nil:
		env.logger.Fatal("following matching job", zap.Error(err))
	}

	if err := controller.Load(ctx); err != nil && !errors.Is(err, dashboard.ErrProfileMissing) {
		env.logger.Warn("loading dashboard", zap.Error(err))
	}

	if err := dashboard.Render(os.Stdout, controller.Snapshot()); err != nil {
		env.logger.Fatal("rendering dashboard", zap.Error(err))
	}
}
