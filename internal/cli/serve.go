package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cycletrack/internal/api"
	"github.com/terraincognita07/cycletrack/internal/config"
	"github.com/terraincognita07/cycletrack/internal/db"
	"github.com/terraincognita07/cycletrack/internal/i18n"
	"github.com/terraincognita07/cycletrack/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), options)
		},
	}
}

func runServe(ctx context.Context, options *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := options.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath, cfg.DBLogLevel)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Printf("close database: %v", err)
		}
	}()
	repositories := db.NewRepositories(database)

	i18nManager, lang, err := options.localizer(cfg)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	store := services.NewCycleEntryStore(services.NewRepositoryEntryPersistence(repositories.CycleEntries))
	tracker := services.NewCycleTracker(store, location)

	handler, err := api.NewHandler(tracker, i18nManager, cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := api.NewApp(handler, api.AppOptions{AccessLog: true})

	lifecycleCtx, cancelLifecycle := context.WithCancel(ctx)
	defer cancelLifecycle()

	if cfg.Reminders.Enabled() {
		reminders := services.NewReminderService(
			repositories.CycleEntries,
			services.NewTelegramSender(cfg.Reminders.TelegramBotToken, cfg.Reminders.TelegramChatID),
			reminderOptions(cfg, location, i18nManager, lang),
		)
		if err := reminders.Start(lifecycleCtx); err != nil {
			return fmt.Errorf("reminder init failed: %w", err)
		}
		log.Printf("telegram reminders scheduled (%s)", cfg.Reminders.Schedule)
	}

	sigCtx, stopSignals := signal.NotifyContext(lifecycleCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("cycletrack listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, cfg.DBPath, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func reminderOptions(cfg config.Config, location *time.Location, manager *i18n.Manager, lang string) services.ReminderOptions {
	return services.ReminderOptions{
		Schedule:           cfg.Reminders.Schedule,
		PeriodReminderDays: cfg.Reminders.PeriodDays,
		FertilityReminder:  cfg.Reminders.Fertility,
		Location:           location,
		Format:             localizedReminderFormat(manager, lang),
	}
}

func localizedReminderFormat(manager *i18n.Manager, lang string) services.ReminderFormatter {
	return func(reminder services.Reminder) string {
		return manager.Translatef(lang, "reminder."+string(reminder.Kind), map[string]any{
			"Days": reminder.DaysAhead,
			"Date": reminder.Date.String(),
		})
	}
}
