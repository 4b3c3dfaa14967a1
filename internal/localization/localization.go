// Package localization provides the texts used in outgoing notifications.
// English defaults are built in; JSON files named after a language code
// (e.g. "uk.json") in a locale directory add or override keys.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultLanguage is used when a key is missing in the requested language.
const DefaultLanguage = "en"

// Keys of the built-in texts.
const (
	KeyRequestEmailSubject = "request_email_subject"
	KeyRequestEmailBody    = "request_email_body"
	KeyRequestTelegram     = "request_telegram"
)

var defaults = map[string]string{
	KeyRequestEmailSubject: "New SkillSwap request: {skill_title}",
	KeyRequestEmailBody: "Hi {to_name},\n\n" +
		"{from_name} would like to learn \"{skill_title}\" from you.\n\n" +
		"Their message:\n{message}\n\n" +
		"Reply to: {reply_to}\n",
	KeyRequestTelegram: "📚 {from_name} asked {to_name} to teach \"{skill_title}\"\n\n{message}",
}

// Localizer manages the translations for the application.
// It holds a map of languages, each with its own map of translation keys and values.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// Default returns a Localizer with only the built-in English texts.
func Default() *Localizer {
	en := make(map[string]string, len(defaults))
	for k, v := range defaults {
		en[k] = v
	}
	return &Localizer{translations: map[string]map[string]string{DefaultLanguage: en}}
}

// NewLocalizer loads all translations from the provided directory on top of
// the built-in defaults. An empty path yields Default().
func NewLocalizer(path string) (*Localizer, error) {
	l := Default()
	if path == "" {
		return l, nil
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		if l.translations[lang] == nil {
			l.translations[lang] = make(map[string]string, len(translations))
		}
		for k, v := range translations {
			l.translations[lang][k] = v
		}
	}

	return l, nil
}

// GetString returns the localized string for a given key and language.
// If the language or the key is not found, it falls back to English and then
// to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != DefaultLanguage {
		if enTranslations, ok := l.translations[DefaultLanguage]; ok {
			if value, ok := enTranslations[key]; ok {
				return value
			}
		}
	}

	return key
}

// Format looks key up and substitutes {name} placeholders from params.
func (l *Localizer) Format(lang, key string, params map[string]string) string {
	text := l.GetString(lang, key)
	if len(params) == 0 {
		return text
	}
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
