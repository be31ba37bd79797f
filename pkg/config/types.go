// Package config provides configuration loading and validation for chatstat.
package config

import (
	"regexp"
	"time"
)

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	// LocaleName selects a built-in locale used as the base for Locale.
	LocaleName string `yaml:"locale_name" toml:"locale_name"`

	// Locale holds the transcript grammar and classification tables.
	Locale LocaleConfig `yaml:"locale" toml:"locale"`

	// Report tunes the size of the derived tables.
	Report ReportConfig `yaml:"report" toml:"report"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level" toml:"log_level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" toml:"webhooks,omitempty" validate:"dive"`
}

// LocaleConfig is the swappable table of locale-specific literals: the
// timestamp grammar, notice phrases, media placeholders and display labels.
type LocaleConfig struct {
	Name string `yaml:"name" toml:"name" validate:"required"`

	// Language is the ISO 639-1 code of the transcript language.
	Language string `yaml:"language" toml:"language" validate:"omitempty,len=2"`

	// TimestampPattern matches the text between the leading brackets.
	// It must not contain capture groups.
	TimestampPattern string `yaml:"timestamp_pattern" toml:"timestamp_pattern" validate:"required"`

	// TimestampLayout is the Go time layout for the captured timestamp.
	TimestampLayout string `yaml:"timestamp_layout" toml:"timestamp_layout" validate:"required"`

	// SenderPrefix is a decorative marker stripped from sender names.
	SenderPrefix string `yaml:"sender_prefix" toml:"sender_prefix"`

	// SystemSender is the sender recorded for system notices.
	SystemSender string `yaml:"system_sender" toml:"system_sender" validate:"required"`

	NoticePhrases     []string `yaml:"notice_phrases" toml:"notice_phrases" validate:"required,min=1,dive,required"`
	MultimediaPhrases []string `yaml:"multimedia_phrases" toml:"multimedia_phrases" validate:"required,min=1,dive,required"`
	PollMarker        string   `yaml:"poll_marker" toml:"poll_marker" validate:"required"`
	DeletedSentinel   string   `yaml:"deleted_sentinel" toml:"deleted_sentinel" validate:"required"`

	// WeekdayLabels are display labels, Monday first.
	WeekdayLabels []string `yaml:"weekday_labels" toml:"weekday_labels" validate:"len=7,dive,required"`

	// MonthLabels are display labels, January first.
	MonthLabels []string `yaml:"month_labels" toml:"month_labels" validate:"len=12,dive,required"`

	Stopwords []string `yaml:"stopwords" toml:"stopwords"`

	compiledAuthored *regexp.Regexp
	compiledNotice   *regexp.Regexp
}

// CompiledAuthored returns the authored-message grammar (populated during validation).
func (l *LocaleConfig) CompiledAuthored() *regexp.Regexp {
	return l.compiledAuthored
}

// CompiledNotice returns the system-notice grammar (populated during validation).
func (l *LocaleConfig) CompiledNotice() *regexp.Regexp {
	return l.compiledNotice
}

// WeekdayLabel returns the display label for a weekday.
func (l *LocaleConfig) WeekdayLabel(d time.Weekday) string {
	// time.Weekday starts on Sunday, labels start on Monday.
	idx := (int(d) + 6) % 7
	if idx < len(l.WeekdayLabels) {
		return l.WeekdayLabels[idx]
	}
	return d.String()
}

// MonthLabel returns the display label for a month.
func (l *LocaleConfig) MonthLabel(m time.Month) string {
	idx := int(m) - 1
	if idx >= 0 && idx < len(l.MonthLabels) {
		return l.MonthLabels[idx]
	}
	return m.String()
}

// ReportConfig controls table sizes in reports.
type ReportConfig struct {
	TopEmojis    int `yaml:"top_emojis" toml:"top_emojis" validate:"gte=0"`
	TopSenders   int `yaml:"top_senders" toml:"top_senders" validate:"gte=0"`
	TopWords     int `yaml:"top_words" toml:"top_words" validate:"gte=0"`
	TopLinks     int `yaml:"top_links" toml:"top_links" validate:"gte=0"`
	PreviewWidth int `yaml:"preview_width" toml:"preview_width" validate:"gte=0"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnEvents fires only when events were extracted (default).
	WebhookTriggerOnEvents WebhookTrigger = "on_events"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint receiving the JSON report.
type WebhookConfig struct {
	Name    string         `yaml:"name,omitempty" toml:"name,omitempty"`
	URL     string         `yaml:"url" toml:"url" validate:"required,http_url"`
	Token   string         `yaml:"token,omitempty" toml:"token,omitempty"`
	Trigger WebhookTrigger `yaml:"trigger,omitempty" toml:"trigger,omitempty" validate:"omitempty,oneof=on_events always never"`
	Timeout time.Duration  `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}
