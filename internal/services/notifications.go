package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/terraincognita07/cycletrack/internal/models"
)

const (
	DefaultReminderSchedule     = "0 9 * * *"
	DefaultPeriodReminderDays   = 2
	telegramAPIBaseURL          = "https://api.telegram.org"
	maxTrackedDailyNotification = 500
)

var ErrReminderSenderMissing = errors.New("reminder sender is not configured")

type ReminderKind string

const (
	ReminderKindPeriod    ReminderKind = "period"
	ReminderKindFertility ReminderKind = "fertility"
)

type Reminder struct {
	Kind      ReminderKind
	UserID    string
	Date      CalendarDate
	DaysAhead int
}

type ReminderEntryRepository interface {
	ListLatestPerUser(ctx context.Context) ([]models.CycleEntry, error)
}

type ReminderSender interface {
	Send(ctx context.Context, message string) error
}

// ReminderFormatter turns a due reminder into the text that is sent.
type ReminderFormatter func(reminder Reminder) string

type ReminderOptions struct {
	Schedule           string
	PeriodReminderDays int
	FertilityReminder  bool
	Location           *time.Location
	Format             ReminderFormatter
}

type ReminderService struct {
	entries   ReminderEntryRepository
	sender    ReminderSender
	options   ReminderOptions
	now       func() time.Time
	mu        sync.Mutex
	sentDaily map[string]CalendarDate
}

func NewReminderService(entries ReminderEntryRepository, sender ReminderSender, options ReminderOptions) *ReminderService {
	if strings.TrimSpace(options.Schedule) == "" {
		options.Schedule = DefaultReminderSchedule
	}
	if options.PeriodReminderDays < 0 {
		options.PeriodReminderDays = DefaultPeriodReminderDays
	}
	if options.Location == nil {
		options.Location = time.Local
	}
	if options.Format == nil {
		options.Format = FormatReminder
	}

	return &ReminderService{
		entries:   entries,
		sender:    sender,
		options:   options,
		now:       time.Now,
		sentDaily: make(map[string]CalendarDate),
	}
}

// Start schedules the reminder job and stops it when ctx is cancelled.
func (service *ReminderService) Start(ctx context.Context) error {
	if service.sender == nil {
		return ErrReminderSenderMissing
	}

	scheduler := cron.New(cron.WithLocation(service.options.Location))
	if _, err := scheduler.AddFunc(service.options.Schedule, func() { service.Run(ctx) }); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", service.options.Schedule, err)
	}
	scheduler.Start()

	go func() {
		<-ctx.Done()
		<-scheduler.Stop().Done()
	}()
	return nil
}

// Run sends every reminder due today that was not sent earlier the same day.
func (service *ReminderService) Run(ctx context.Context) {
	today := DateOf(service.now().In(service.options.Location))

	due, err := service.DueReminders(ctx, today)
	if err != nil {
		log.Printf("reminders: %v", err)
		return
	}

	for _, reminder := range due {
		key := fmt.Sprintf("%s:%s:%s", reminder.Kind, reminder.UserID, today.String())
		if service.alreadySent(key, today) {
			continue
		}
		if err := service.sender.Send(ctx, service.options.Format(reminder)); err != nil {
			log.Printf("reminders: send %s reminder for user %s failed: %v", reminder.Kind, reminder.UserID, err)
			continue
		}
		service.markSent(key, today)
	}
}

// DueReminders lists the reminders that fall on today for each user's most
// recent cycle.
func (service *ReminderService) DueReminders(ctx context.Context, today CalendarDate) ([]Reminder, error) {
	rows, err := service.entries.ListLatestPerUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest entries: %w", err)
	}

	due := make([]Reminder, 0)
	for _, row := range rows {
		entry, err := CycleEntryFromModel(row)
		if err != nil {
			log.Printf("reminders: skip entry %s: %v", row.PublicID, err)
			continue
		}

		nextStart := entry.Phases.NextPeriodStart()
		if !nextStart.IsZero() && today.DaysUntil(nextStart) == service.options.PeriodReminderDays {
			due = append(due, Reminder{
				Kind:      ReminderKindPeriod,
				UserID:    row.UserID,
				Date:      nextStart,
				DaysAhead: service.options.PeriodReminderDays,
			})
		}

		if service.options.FertilityReminder && len(entry.Phases.FertileWindow) > 0 && entry.Phases.FertileWindow[0].Equal(today) {
			due = append(due, Reminder{
				Kind:   ReminderKindFertility,
				UserID: row.UserID,
				Date:   today,
			})
		}
	}
	return due, nil
}

func (service *ReminderService) alreadySent(key string, today CalendarDate) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	sentOn, ok := service.sentDaily[key]
	return ok && sentOn.Equal(today)
}

// markSent records a delivered reminder. Failed sends are not recorded so the
// next run retries them.
func (service *ReminderService) markSent(key string, today CalendarDate) {
	service.mu.Lock()
	defer service.mu.Unlock()

	service.sentDaily[key] = today
	if len(service.sentDaily) > maxTrackedDailyNotification {
		service.sentDaily = map[string]CalendarDate{key: today}
	}
}

func FormatReminder(reminder Reminder) string {
	switch reminder.Kind {
	case ReminderKindFertility:
		return fmt.Sprintf("Cycle reminder: your fertile window starts today (%s).", reminder.Date.Time().Format("Jan 2"))
	default:
		return fmt.Sprintf("Cycle reminder: your next period is expected in %d day(s) on %s.",
			reminder.DaysAhead,
			reminder.Date.Time().Format("Jan 2"),
		)
	}
}

type TelegramSender struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

func NewTelegramSender(botToken string, chatID string) *TelegramSender {
	return &TelegramSender{
		botToken: strings.TrimSpace(botToken),
		chatID:   strings.TrimSpace(chatID),
		baseURL:  telegramAPIBaseURL,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (sender *TelegramSender) Enabled() bool {
	return sender != nil && sender.botToken != "" && sender.chatID != ""
}

func (sender *TelegramSender) Send(ctx context.Context, message string) error {
	values := url.Values{}
	values.Set("chat_id", sender.chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(sender.baseURL, "/"), sender.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sender.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
