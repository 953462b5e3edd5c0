package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cycletrack/internal/i18n"
	"github.com/terraincognita07/cycletrack/internal/services"
)

var phaseMarkers = map[services.DayPhase]string{
	services.DayPhasePeriod:     "P",
	services.DayPhaseOvulation:  "O",
	services.DayPhaseFertile:    "F",
	services.DayPhaseNextPeriod: "N",
}

var phaseColors = map[services.DayPhase]lipgloss.Color{
	services.DayPhasePeriod:     lipgloss.Color("#E11D48"),
	services.DayPhaseOvulation:  lipgloss.Color("#7C3AED"),
	services.DayPhaseFertile:    lipgloss.Color("#059669"),
	services.DayPhaseNextPeriod: lipgloss.Color("#F59E0B"),
}

func newCalendarCommand(options *rootOptions) *cobra.Command {
	var (
		cycleLength int
		showNext    bool
	)

	cmd := &cobra.Command{
		Use:   "calendar <period-start>",
		Short: "Render the month of a cycle with its phases highlighted",
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

			entry := services.CycleEntry{PeriodStartDate: periodStart, CycleLengthHint: cycleLength, Phases: phases}
			session, _ := services.NewCalendarSession(periodStart).Apply(services.AddEntryEvent{Entry: entry})
			if showNext {
				moved := false
				if session, moved = session.Apply(services.NextMonthEvent{}); !moved {
					return fmt.Errorf("%w: the expected period of this cycle does not end in the following month", services.ErrIllegalNavigation)
				}
			}

			out := cmd.OutOrStdout()
			return renderMonth(out, manager, lang, session, colorEnabled(out))
		},
	}
	cmd.Flags().IntVar(&cycleLength, "cycle-length", 0, "cycle length in days (0 uses the default of 28)")
	cmd.Flags().BoolVar(&showNext, "next", false, "show the month after the period start")
	return cmd
}

// colorEnabled reports whether out is an interactive terminal.
func colorEnabled(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func renderMonth(out io.Writer, manager *i18n.Manager, lang string, session services.CalendarSession, styled bool) error {
	projection := services.ProjectMonth(session.State, session.Active)
	titleStyle := lipgloss.NewStyle()
	if styled {
		titleStyle = titleStyle.Bold(true)
	}

	var builder strings.Builder
	builder.WriteString(titleStyle.Render(manager.MonthTitle(lang, projection.Month, projection.Year)))
	builder.WriteString("\n")

	header := make([]string, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		header = append(header, fmt.Sprintf("%-3s", manager.WeekdayShort(lang, weekday)))
	}
	builder.WriteString(strings.TrimRight(strings.Join(header, " "), " "))
	builder.WriteString("\n")

	column := int(projection.FirstWeekday())
	row := strings.Repeat("    ", column)
	for _, day := range projection.Days {
		row += cellStyle(day.Phase, styled).Render(fmt.Sprintf("%2d%s", day.Day, markerOf(day.Phase))) + " "
		column++
		if column == 7 {
			builder.WriteString(strings.TrimRight(row, " "))
			builder.WriteString("\n")
			row = ""
			column = 0
		}
	}
	if row != "" {
		builder.WriteString(strings.TrimRight(row, " "))
		builder.WriteString("\n")
	}

	legend := make([]string, 0, len(services.LegendPhases))
	for _, phase := range services.LegendPhases {
		legend = append(legend, cellStyle(phase, styled).Render(markerOf(phase))+" "+manager.PhaseLabel(lang, string(phase)))
	}
	builder.WriteString("\n")
	builder.WriteString(strings.Join(legend, "  "))
	builder.WriteString("\n")

	_, err := io.WriteString(out, builder.String())
	return err
}

func markerOf(phase services.DayPhase) string {
	if marker, ok := phaseMarkers[phase]; ok {
		return marker
	}
	return " "
}

func cellStyle(phase services.DayPhase, styled bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	if !styled {
		return style
	}
	if color, ok := phaseColors[phase]; ok {
		style = style.Foreground(color).Bold(true)
	}
	return style
}
