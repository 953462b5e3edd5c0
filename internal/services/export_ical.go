package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const (
	icalProductID = "-//cycletrack//phase calendar//EN"
	icalUIDDomain = "cycletrack"
)

type PhaseLabeler func(phase DayPhase) string

type PhaseCalendarExport struct {
	UserID   string
	Entry    CycleEntry
	Forecast []PhaseSet
	Label    PhaseLabeler
	Now      time.Time
}

// BuildPhaseCalendar renders the entry's phases and its forecast as all-day
// iCalendar events.
func BuildPhaseCalendar(export PhaseCalendarExport) ([]byte, error) {
	label := export.Label
	if label == nil {
		label = func(phase DayPhase) string { return string(phase) }
	}
	now := export.Now
	if now.IsZero() {
		now = time.Now()
	}

	calendar := ical.NewCalendar()
	calendar.Props.SetText(ical.PropVersion, "2.0")
	calendar.Props.SetText(ical.PropProductID, icalProductID)
	calendar.Props.SetText("CALSCALE", "GREGORIAN")

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())

	spans := make([]phaseSpan, 0, 4*(len(export.Forecast)+1))
	if !export.Entry.Phases.IsZero() {
		spans = append(spans, phaseSpans(export.Entry.Phases, false)...)
	}
	for _, phases := range export.Forecast {
		spans = append(spans, phaseSpans(phases, true)...)
	}

	seen := make(map[string]bool)
	for _, span := range spans {
		uid := phaseEventUID(export.UserID, span.phase, span.start)
		if seen[uid] {
			continue
		}
		seen[uid] = true

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, uid)
		event.Props.SetText(ical.PropSummary, label(span.phase))
		event.Props.SetText("CATEGORIES", string(span.phase))

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDate(span.start.Time())
		event.Props.Set(start)

		end := ical.NewProp(ical.PropDateTimeEnd)
		end.SetDate(span.end.AddDays(1).Time())
		event.Props.Set(end)

		event.Props.Set(stamp)
		calendar.Children = append(calendar.Children, event.Component)
	}

	var output bytes.Buffer
	if len(calendar.Children) == 0 {
		fmt.Fprintf(&output, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:%s\r\nEND:VCALENDAR\r\n", icalProductID)
		return output.Bytes(), nil
	}
	if err := ical.NewEncoder(&output).Encode(calendar); err != nil {
		return nil, fmt.Errorf("encode phase calendar: %w", err)
	}
	return output.Bytes(), nil
}

type phaseSpan struct {
	phase DayPhase
	start CalendarDate
	end   CalendarDate
}

// phaseSpans turns a phase set into event ranges. Period days of a projected
// cycle are only expected, so they share the expected-period label and UID.
func phaseSpans(phases PhaseSet, projected bool) []phaseSpan {
	spans := make([]phaseSpan, 0, 4)
	if len(phases.PeriodDays) > 0 {
		periodPhase := DayPhasePeriod
		if projected {
			periodPhase = DayPhaseNextPeriod
		}
		spans = append(spans, phaseSpan{periodPhase, phases.PeriodDays[0], phases.PeriodDays[len(phases.PeriodDays)-1]})
	}
	if len(phases.FertileWindow) > 0 {
		spans = append(spans, phaseSpan{DayPhaseFertile, phases.FertileWindow[0], phases.FertileWindow[len(phases.FertileWindow)-1]})
	}
	if !phases.OvulationDay.IsZero() {
		spans = append(spans, phaseSpan{DayPhaseOvulation, phases.OvulationDay, phases.OvulationDay})
	}
	if len(phases.NextExpectedPeriod) > 0 {
		spans = append(spans, phaseSpan{DayPhaseNextPeriod, phases.NextPeriodStart(), phases.NextPeriodEnd()})
	}
	return spans
}

func phaseEventUID(userID string, phase DayPhase, start CalendarDate) string {
	name := fmt.Sprintf("%s/%s/%s", userID, phase, start.String())
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@" + icalUIDDomain
}
