package textdraw

import (
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// NewBundle creates a message bundle that reads TOML, YAML and JSON message files.
func NewBundle(defaultLanguage language.Tag) *i18n.Bundle {
	bundle := i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	return bundle
}

// NewLocalizer builds a localizer for the given language names, most
// preferred first. Unparseable names are skipped.
func NewLocalizer(bundle *i18n.Bundle, langs ...string) *i18n.Localizer {
	tags := make([]string, 0, len(langs))
	for _, l := range langs {
		if tag, err := language.Parse(l); err == nil {
			tags = append(tags, tag.String())
		}
	}
	return i18n.NewLocalizer(bundle, tags...)
}
