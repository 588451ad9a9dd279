// Package i18n holds the user-facing strings that leave the JSON API:
// reminder texts and calendar feed labels.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

const (
	LangEN = "en"
	LangRU = "ru"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

var (
	defaultOnce    sync.Once
	defaultManager *Manager
	defaultErr     error
)

type Manager struct {
	defaultLanguage string
	locales         map[string]map[string]string
	supported       []string
}

// Default returns the manager built from the bundled locales, English first.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager, defaultErr = NewManager(LangEN, embeddedLocales, "locales")
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("i18n: bundled locales: %v", defaultErr))
	}
	return defaultManager
}

// NewManager loads every *.json file in dir of fsys as one language.
func NewManager(defaultLanguage string, fsys fs.FS, dir string) (*Manager, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	manager := &Manager{locales: map[string]map[string]string{}}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}

		language := strings.TrimSuffix(strings.ToLower(entry.Name()), ".json")
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}
		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}

		manager.locales[language] = messages
		manager.supported = append(manager.supported, language)
	}

	if _, ok := manager.locales[LangEN]; !ok {
		return nil, fmt.Errorf("required locale %q missing", LangEN)
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

// NormalizeLanguage maps tags like "ru_RU" onto a loaded language, or the
// default one.
func (manager *Manager) NormalizeLanguage(raw string) string {
	normalized := normalizeLanguageTag(raw)
	if _, ok := manager.locales[normalized]; ok {
		return normalized
	}
	return manager.defaultLanguage
}

func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		if _, ok := manager.locales[normalizeLanguageTag(token)]; ok {
			return normalizeLanguageTag(token)
		}
	}
	return manager.defaultLanguage
}

// Translate falls back to the default language, then English, then the key
// itself.
func (manager *Manager) Translate(language string, key string) string {
	for _, candidate := range []string{manager.NormalizeLanguage(language), manager.defaultLanguage, LangEN} {
		if value := manager.locales[candidate][key]; strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	if separator := strings.Index(language, "-"); separator >= 0 {
		language = language[:separator]
	}
	return language
}
