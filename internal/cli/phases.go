package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cycletrack/internal/i18n"
	"github.com/terraincognita07/cycletrack/internal/services"
)

func newPhasesCommand(options *rootOptions) *cobra.Command {
	var cycleLength int

	cmd := &cobra.Command{
		Use:   "phases <period-start>",
		Short: "Print the phases of a cycle starting on YYYY-MM-DD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			periodStart, err := services.ParseCalendarDate(args[0])
			if err != nil {
				return err
			}
			phases, err := services.ComputePhases(periodStart, cycleLength)
			if err != nil {
				return err
			}

			cfg, err := options.loadConfig()
			if err != nil {
				return err
			}
			manager, lang, err := options.localizer(cfg)
			if err != nil {
				return err
			}
			return printPhases(cmd.OutOrStdout(), manager, lang, phases)
		},
	}
	cmd.Flags().IntVar(&cycleLength, "cycle-length", 0, "cycle length in days (0 uses the default of 28)")
	return cmd
}

func printPhases(out io.Writer, manager *i18n.Manager, lang string, phases services.PhaseSet) error {
	rows := []struct {
		phase services.DayPhase
		value string
	}{
		{services.DayPhasePeriod, dateRange(phases.PeriodDays)},
		{services.DayPhaseFertile, dateRange(phases.FertileWindow)},
		{services.DayPhaseOvulation, phases.OvulationDay.String()},
		{services.DayPhaseNextPeriod, dateRange(phases.NextExpectedPeriod)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(out, "%-22s %s\n", manager.PhaseLabel(lang, string(row.phase)), row.value); err != nil {
			return err
		}
	}

	cycleLength := phases.CycleLength()
	if _, err := fmt.Fprintln(out, manager.Translatef(lang, "cli.cycle_length", map[string]any{"Days": cycleLength})); err != nil {
		return err
	}
	if !services.IsTypicalCycleLength(cycleLength) {
		_, err := fmt.Fprintln(out, manager.Translatef(lang, "cli.atypical_cycle", map[string]any{
			"Min": services.MinTypicalCycleLength,
			"Max": services.MaxTypicalCycleLength,
		}))
		return err
	}
	return nil
}

func dateRange(dates []services.CalendarDate) string {
	switch len(dates) {
	case 0:
		return "-"
	case 1:
		return dates[0].String()
	default:
		return dates[0].String() + " .. " + dates[len(dates)-1].String()
	}
}
