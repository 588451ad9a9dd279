package i18n

import (
	"sort"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLocaleKeysParity(t *testing.T) {
	manager := Default()
	en := manager.locales[LangEN]
	ru := manager.locales[LangRU]
	if len(ru) == 0 {
		t.Fatal("bundled ru locale missing")
	}

	if missing := missingKeys(en, ru); len(missing) > 0 {
		t.Errorf("keys missing in ru locale: %s", strings.Join(missing, ", "))
	}
	if missing := missingKeys(ru, en); len(missing) > 0 {
		t.Errorf("keys missing in en locale: %s", strings.Join(missing, ", "))
	}
}

func TestLocaleFormatsMatch(t *testing.T) {
	manager := Default()
	for key, english := range manager.locales[LangEN] {
		russian := manager.locales[LangRU][key]
		if verbs(english) != verbs(russian) {
			t.Errorf("%s: format verbs differ: en %q, ru %q", key, verbs(english), verbs(russian))
		}
	}
}

func TestLanguageSelection(t *testing.T) {
	manager := Default()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "region tag", got: manager.NormalizeLanguage("ru_RU"), want: LangRU},
		{name: "unknown", got: manager.NormalizeLanguage("de"), want: LangEN},
		{name: "empty", got: manager.NormalizeLanguage(""), want: LangEN},
		{name: "accept language", got: manager.DetectFromAcceptLanguage("de-DE,ru;q=0.8,en;q=0.5"), want: LangRU},
		{name: "accept language none", got: manager.DetectFromAcceptLanguage("fr, de"), want: LangEN},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestTranslateFallbacks(t *testing.T) {
	manager, err := NewManager("ru", fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"greeting":"Hello %s","only.en":"English"}`)},
		"locales/ru.json": {Data: []byte(`{"greeting":"Привет %s"}`)},
	}, "locales")
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}

	if got := manager.Translatef("", "greeting", "Ana"); got != "Привет Ana" {
		t.Fatalf("expected default language ru, got %q", got)
	}
	if got := manager.Translate("ru", "only.en"); got != "English" {
		t.Fatalf("expected fallback to default messages, got %q", got)
	}
	if got := manager.Translate("en", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
	if got := manager.SupportedLanguages(); len(got) != 2 || got[0] != LangEN {
		t.Fatalf("unexpected supported languages %v", got)
	}
}

func TestNewManagerRequiresEnglish(t *testing.T) {
	_, err := NewManager("ru", fstest.MapFS{
		"locales/ru.json": {Data: []byte(`{"greeting":"Привет"}`)},
	}, "locales")
	if err == nil {
		t.Fatal("expected missing en locale error")
	}
}

func missingKeys(source map[string]string, target map[string]string) []string {
	missing := make([]string, 0)
	for key := range source {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func verbs(format string) string {
	var out strings.Builder
	for index := 0; index < len(format)-1; index++ {
		if format[index] == '%' {
			out.WriteByte(format[index+1])
			index++
		}
	}
	return out.String()
}
