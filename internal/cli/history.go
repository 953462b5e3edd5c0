package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cycletrack/internal/db"
	"github.com/terraincognita07/cycletrack/internal/services"
)

func newHistoryCommand(options *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <user-id>",
		Short: "List the most recent stored cycle entries of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := strings.TrimSpace(args[0])
			if userID == "" {
				return services.ErrUserIDRequired
			}
			if limit <= 0 {
				limit = services.DefaultHistoryLimit
			}

			cfg, err := options.loadConfig()
			if err != nil {
				return err
			}
			database, err := db.OpenSQLite(cfg.DBPath, cfg.DBLogLevel)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			defer db.Close(database)
			repositories := db.NewRepositories(database)

			ctx := cmd.Context()
			total, err := repositories.CycleEntries.CountByUser(ctx, userID)
			if err != nil {
				return err
			}

			store := services.NewCycleEntryStore(services.NewRepositoryEntryPersistence(repositories.CycleEntries))
			if err := store.LoadHistory(ctx, userID); err != nil {
				return err
			}
			entries := store.LastN(userID, limit)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d of %d entries for %s\n", len(entries), total, userID)
			for _, entry := range entries {
				fmt.Fprintf(out, "%s  %2d days  next %s\n",
					entry.PeriodStartDate,
					entry.Phases.CycleLength(),
					entry.Phases.NextPeriodStart(),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", services.DefaultHistoryLimit, "number of entries to show")
	return cmd
}
