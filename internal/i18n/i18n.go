package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strconv"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const (
	LangRU = "ru"
	LangEN = "en"
)

//go:embed locales/active.*.json
var localeFS embed.FS

type Manager struct {
	defaultLanguage string
	bundle          *goi18n.Bundle
	localizers      map[string]*goi18n.Localizer
	supported       []string
}

// NewManager loads the embedded locales. Both en and ru must be present.
func NewManager(defaultLanguage string) (*Manager, error) {
	return newManagerFromFS(defaultLanguage, localeFS, "locales")
}

func newManagerFromFS(defaultLanguage string, files fs.FS, dir string) (*Manager, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	manager := &Manager{
		bundle:     bundle,
		localizers: make(map[string]*goi18n.Localizer),
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}

		code := normalizeLanguageTag(strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json"))
		if code == "" {
			log.Printf("i18n: skip locale file with bad name %s", name)
			continue
		}

		file, err := bundle.LoadMessageFileFS(files, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("load locale %s: %w", code, err)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", code)
		}

		manager.localizers[code] = goi18n.NewLocalizer(bundle, code)
		manager.supported = append(manager.supported, code)
	}

	for _, required := range []string{LangEN, LangRU} {
		if _, ok := manager.localizers[required]; !ok {
			return nil, fmt.Errorf("required locale %q missing", required)
		}
	}

	sort.Strings(manager.supported)
	manager.defaultLanguage = LangEN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	return manager, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	result := make([]string, len(manager.supported))
	copy(result, manager.supported)
	return result
}

// NormalizeLanguage maps a tag such as "ru-RU" to a supported base language,
// falling back to the default language.
func (manager *Manager) NormalizeLanguage(raw string) string {
	normalized := normalizeLanguageTag(raw)
	if manager.isSupported(normalized) {
		return normalized
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the supported language with the highest
// quality in an Accept-Language header.
func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil {
		return manager.defaultLanguage
	}
	for _, tag := range tags {
		base, _ := tag.Base()
		if manager.isSupported(base.String()) {
			return base.String()
		}
	}
	return manager.defaultLanguage
}

// Translate returns the message for key, or key itself when no locale has it.
func (manager *Manager) Translate(lang string, key string) string {
	return manager.Translatef(lang, key, nil)
}

func (manager *Manager) Translatef(lang string, key string, data map[string]any) string {
	localizer := manager.localizers[manager.NormalizeLanguage(lang)]
	message, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || strings.TrimSpace(message) == "" {
		return key
	}
	return message
}

// MonthName takes a zero-based month index.
func (manager *Manager) MonthName(lang string, monthIndex int) string {
	return manager.Translate(lang, "month."+strconv.Itoa(monthIndex))
}

func (manager *Manager) MonthTitle(lang string, monthIndex int, year int) string {
	return manager.Translatef(lang, "calendar.title", map[string]any{
		"Month": manager.MonthName(lang, monthIndex),
		"Year":  year,
	})
}

func (manager *Manager) WeekdayShort(lang string, weekday int) string {
	return manager.Translate(lang, "weekday."+strconv.Itoa(weekday))
}

func (manager *Manager) PhaseLabel(lang string, phase string) string {
	return manager.Translate(lang, "phase."+phase)
}

func (manager *Manager) isSupported(lang string) bool {
	if lang == "" {
		return false
	}
	_, ok := manager.localizers[lang]
	return ok
}

func normalizeLanguageTag(raw string) string {
	value := strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))
	if value == "" {
		return ""
	}
	tag, err := language.Parse(value)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
