package services

import "strconv"

var ExportCSVHeaders = []string{
	"Period start",
	"Cycle length",
	"Length hint",
	"Ovulation",
	"Fertile from",
	"Fertile to",
	"Next period",
	"Recorded at",
}

// ExportCSVRows renders one row per entry, oldest first. An entry without a
// hint leaves the hint column empty.
func ExportCSVRows(entries []CycleEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		hint := ""
		if entry.CycleLengthHint > 0 {
			hint = strconv.Itoa(entry.CycleLengthHint)
		}

		fertileFrom, fertileTo := "", ""
		if window := entry.Phases.FertileWindow; len(window) > 0 {
			fertileFrom = window[0].String()
			fertileTo = window[len(window)-1].String()
		}

		recordedAt := ""
		if !entry.CreatedAt.IsZero() {
			recordedAt = entry.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
		}

		rows = append(rows, []string{
			entry.PeriodStartDate.String(),
			strconv.Itoa(entry.Phases.CycleLength()),
			hint,
			entry.Phases.OvulationDay.String(),
			fertileFrom,
			fertileTo,
			entry.Phases.NextPeriodStart().String(),
			recordedAt,
		})
	}
	return rows
}
