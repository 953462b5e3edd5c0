package i18n

import (
	"reflect"
	"testing"
	"testing/fstest"
)

func newTestManager(t *testing.T, defaultLanguage string) *Manager {
	t.Helper()

	manager, err := NewManager(defaultLanguage)
	if err != nil {
		t.Fatalf("NewManager() unexpected error: %v", err)
	}
	return manager
}

func TestNewManagerLoadsEmbeddedLocales(t *testing.T) {
	manager := newTestManager(t, "ru")

	if manager.DefaultLanguage() != LangRU {
		t.Fatalf("expected default language ru, got %q", manager.DefaultLanguage())
	}
	if got := manager.SupportedLanguages(); !reflect.DeepEqual(got, []string{LangEN, LangRU}) {
		t.Fatalf("unexpected supported languages %v", got)
	}
}

func TestNewManagerFallsBackToEnglishDefault(t *testing.T) {
	manager := newTestManager(t, "de")
	if manager.DefaultLanguage() != LangEN {
		t.Fatalf("expected unsupported default to fall back to en, got %q", manager.DefaultLanguage())
	}
}

func TestNewManagerRequiresBothLocales(t *testing.T) {
	files := fstest.MapFS{
		"locales/active.en.json": &fstest.MapFile{Data: []byte(`{"phase.period": "Period"}`)},
	}
	if _, err := newManagerFromFS("en", files, "locales"); err == nil {
		t.Fatalf("expected missing ru locale to fail")
	}
}

func TestNormalizeLanguage(t *testing.T) {
	manager := newTestManager(t, "en")

	cases := map[string]string{
		"ru":    LangRU,
		"ru-RU": LangRU,
		"RU_ru": LangRU,
		"en-GB": LangEN,
		"fr":    LangEN,
		"":      LangEN,
	}
	for raw, want := range cases {
		if got := manager.NormalizeLanguage(raw); got != want {
			t.Fatalf("NormalizeLanguage(%q): expected %q, got %q", raw, want, got)
		}
	}
}

func TestDetectFromAcceptLanguage(t *testing.T) {
	manager := newTestManager(t, "en")

	if got := manager.DetectFromAcceptLanguage("fr-FR,fr;q=0.9,ru;q=0.8,en;q=0.5"); got != LangRU {
		t.Fatalf("expected ru, got %q", got)
	}
	if got := manager.DetectFromAcceptLanguage("de"); got != LangEN {
		t.Fatalf("expected default en, got %q", got)
	}
	if got := manager.DetectFromAcceptLanguage(""); got != LangEN {
		t.Fatalf("expected default en for empty header, got %q", got)
	}
}

func TestTranslateAndLabels(t *testing.T) {
	manager := newTestManager(t, "en")

	if got := manager.PhaseLabel("ru", "ovulation"); got != "Овуляция" {
		t.Fatalf("unexpected ru ovulation label %q", got)
	}
	if got := manager.PhaseLabel("en", "nextPeriod"); got != "Expected period" {
		t.Fatalf("unexpected en next period label %q", got)
	}
	if got := manager.MonthTitle("en", 11, 2025); got != "December 2025" {
		t.Fatalf("unexpected month title %q", got)
	}
	if got := manager.MonthName("ru", 0); got != "Январь" {
		t.Fatalf("unexpected ru month name %q", got)
	}
	if got := manager.WeekdayShort("en", 1); got != "Mo" {
		t.Fatalf("unexpected weekday %q", got)
	}
	if got := manager.Translatef("en", "error.forecast_range", map[string]any{"Max": 12}); got != "Forecast must cover between 1 and 12 cycles" {
		t.Fatalf("unexpected templated message %q", got)
	}
	if got := manager.Translate("en", "missing.key"); got != "missing.key" {
		t.Fatalf("expected missing key to echo back, got %q", got)
	}
}
