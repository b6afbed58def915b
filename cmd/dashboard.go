package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/dashboard"
	"github.com/spigell/research-matcher/internal/filtering"
)

const (
	PromptRefresh             = "Refresh matches"
	PromptRetry               = "Retry"
	PromptGenerate            = "Generate matches"
	PromptMatchesToFile       = "Dump matches to file"
	PromptAppendToExcludeFile = "Append all matched professors to exclude file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the ranked matches of a student and follow a running matching job",
	Run: func(cmd *cobra.Command, _ []string) {
		runDashboard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().BoolP("auto", "y", false, "print the dashboard and exit without the action menu")
	dashboardCmd.Flags().StringP("exclude-file", "e", "", "special file with professors to exclude. Default is unset.")
	dashboardCmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address while the dashboard runs")

	viper.BindPFlag("exclude-file", dashboardCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("metrics-addr", dashboardCmd.Flags().Lookup("metrics-addr"))
}

func runDashboard(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := setup()
	logger := env.logger

	studentID, ok := env.subject()
	if !ok {
		return
	}

	if addr := env.config.MetricsAddr; addr != "" {
		shutdown := serveMetrics(addr, env.collector.Handler(), logger)
		defer shutdown()
	}

	controller := dashboard.NewController(env.client, studentID, dashboard.Options{
		Filters:      env.filtersConfig(),
		Poll:         env.pollConfig(),
		TickObserver: env.collector,
	}, logger)

	controller.OnChange(func(s dashboard.Snapshot) {
		if s.State == dashboard.Loading {
			return
		}
		if s.Matches != nil {
			env.collector.SetMatchesDisplayed(s.Matches.Len())
		}
		if err := dashboard.Render(os.Stdout, s); err != nil {
			logger.Warn("rendering dashboard", zap.Error(err))
		}
	})

	if err := controller.Load(ctx); err != nil {
		if errors.Is(err, dashboard.ErrProfileMissing) {
			logger.Info("exiting", zap.String("reason", "student profile not found"), zap.String("hint", onboardingHint))
			return
		}
		// The failure is rendered; the menu offers a retry.
		logger.Warn("loading dashboard", zap.Error(err))
	}

	if err := controller.Watch(ctx); err != nil {
		logger.Info("exiting", zap.String("reason", err.Error()))
		return
	}

	auto, _ := cmd.Flags().GetBool("auto")
	if auto {
		if controller.Snapshot().State == dashboard.LoadFailed {
			logger.Fatal("exiting", zap.Error(controller.Snapshot().LoadErr))
		}
		return
	}

	for {
		prompt := promptui.Select{
			Label: "What next?",
			Items: menuItems(controller.Snapshot(), env.config.ExcludeFile),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Info("exiting", zap.Error(err))
			return
		}

		if err := handleAction(ctx, action, env, controller); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			if errors.Is(err, dashboard.ErrProfileMissing) {
				logger.Info("exiting", zap.String("reason", "student profile not found"), zap.String("hint", onboardingHint))
				return
			}
			if ctx.Err() != nil {
				logger.Info("exiting", zap.String("reason", ctx.Err().Error()))
				return
			}
			logger.Warn("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func menuItems(s dashboard.Snapshot, excludeFile string) []string {
	items := []string{PromptRefresh}

	switch s.State {
	case dashboard.LoadFailed, dashboard.JobFailed:
		items = append([]string{PromptRetry}, items...)
	}

	items = append(items, PromptGenerate)

	if s.State == dashboard.Populated {
		items = append(items, PromptMatchesToFile)
		if excludeFile != "" {
			items = append(items, PromptAppendToExcludeFile)
		}
	}

	return append(items, PromptExit)
}

func handleAction(ctx context.Context, action string, env *environment, controller *dashboard.Controller) error {
	logger := env.logger

	switch action {
	case PromptRefresh:
		return controller.Refresh(ctx)
	case PromptRetry:
		if err := controller.Retry(ctx); err != nil {
			return err
		}
		return controller.Watch(ctx)
	case PromptGenerate:
		return controller.Generate(ctx, env.config.UseAI)
	case PromptMatchesToFile:
		filename, err := controller.Snapshot().Matches.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		added, err := filtering.AppendToExcludeFile(env.config.ExcludeFile, controller.Snapshot().Matches)
		if err != nil {
			return err
		}
		logger.Info("professors added to exclude file",
			zap.String("path", env.config.ExcludeFile),
			zap.Int("added", added),
		)
		return controller.Refresh(ctx)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func serveMetrics(addr string, handler http.Handler, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
