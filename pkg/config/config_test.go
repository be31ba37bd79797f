package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LocaleName != DefaultLocale {
		t.Errorf("LocaleName = %q, want %q", cfg.LocaleName, DefaultLocale)
	}
	if cfg.Locale.PollMarker != "ENCUESTA:" {
		t.Errorf("PollMarker = %q, want ENCUESTA:", cfg.Locale.PollMarker)
	}
	if cfg.Report.TopEmojis != DefaultTopEmojis {
		t.Errorf("TopEmojis = %d, want %d", cfg.Report.TopEmojis, DefaultTopEmojis)
	}
	if cfg.Locale.CompiledAuthored() == nil || cfg.Locale.CompiledNotice() == nil {
		t.Fatal("grammar was not compiled")
	}
}

func TestLoad_YAMLOverridesLocaleFields(t *testing.T) {
	content := `
locale_name: es
log_level: DEBUG
locale:
  poll_marker: "SONDEO:"
  multimedia_phrases:
    - "archivo omitido"
report:
  top_emojis: 5
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, "SONDEO:", cfg.Locale.PollMarker)
	require.Equal(t, []string{"archivo omitido"}, cfg.Locale.MultimediaPhrases)
	// Fields not in the file keep the built-in values.
	require.Equal(t, "Se eliminó este mensaje.", cfg.Locale.DeletedSentinel)
	require.Equal(t, 5, cfg.Report.TopEmojis)
	require.Equal(t, DefaultTopWords, cfg.Report.TopWords)
	require.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoad_TOML(t *testing.T) {
	content := `
locale_name = "en"

[report]
top_words = 20
`
	path := writeTempFile(t, "config.toml", content)
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, "en", cfg.Locale.Name)
	require.Equal(t, "This message was deleted.", cfg.Locale.DeletedSentinel)
	require.Equal(t, 20, cfg.Report.TopWords)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CHATSTAT_LOCALE", "en")
	t.Setenv("CHATSTAT_LOG_LEVEL", "error")
	t.Setenv("CHATSTAT_TOP_EMOJIS", "0")

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)

	require.Equal(t, "en", cfg.LocaleName)
	require.Equal(t, "POLL:", cfg.Locale.PollMarker)
	require.Equal(t, "ERROR", cfg.LogLevel)
	require.Equal(t, 0, cfg.Report.TopEmojis)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_CustomLocaleMissingTables(t *testing.T) {
	path := writeTempFile(t, "custom.yaml", "locale_name: pt\n")
	_, err := Load(context.Background(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "notice_phrases")
}

func TestValidate_InvalidTimestampPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locale.TimestampPattern = `[invalid`
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for invalid regex")
	}
}

func TestValidate_TimestampPatternWithCaptureGroup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locale.TimestampPattern = `(\d{2})/\d{2}/\d{2}, \d{2}:\d{2}:\d{2}`
	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "capture groups")
}

func TestValidate_WeekdayLabels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locale.WeekdayLabels = []string{"Mon", "Tue"}
	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "weekday_labels")
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "LOUD"
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for unknown log level")
	}
}

func TestValidate_Webhooks(t *testing.T) {
	t.Setenv("CHATSTAT_TEST_TOKEN", "secret")

	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://charts.example.com/hook", Token: "${CHATSTAT_TEST_TOKEN}"}}
	require.NoError(t, Validate(cfg))

	wh := cfg.Webhooks[0]
	require.Equal(t, "secret", wh.Token)
	require.Equal(t, WebhookTriggerOnEvents, wh.Trigger)
	require.Equal(t, DefaultWebhookTimeout, wh.Timeout)

	cfg.Webhooks = []WebhookConfig{{URL: "ftp://example.com"}}
	require.Error(t, Validate(cfg))

	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com", Trigger: "sometimes"}}
	require.Error(t, Validate(cfg))
}

func TestCompiledGrammar(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))

	m := cfg.Locale.CompiledAuthored().FindStringSubmatch("[15/08/23, 14:30:05] ~ Ana: Hola: qué tal")
	require.Len(t, m, 4)
	require.Equal(t, "15/08/23, 14:30:05", m[1])
	require.Equal(t, "~ Ana", m[2])
	require.Equal(t, "Hola: qué tal", m[3])

	require.Nil(t, cfg.Locale.CompiledAuthored().FindStringSubmatch("[15/08/23, 09:00:00] Se creó este grupo"))
	require.NotNil(t, cfg.Locale.CompiledNotice().FindStringSubmatch("[15/08/23, 09:00:00] Se creó este grupo"))
}

func TestLocaleLabels(t *testing.T) {
	l, ok := BuiltinLocale("es")
	require.True(t, ok)

	require.Equal(t, "Lun", l.WeekdayLabel(time.Monday))
	require.Equal(t, "Dom", l.WeekdayLabel(time.Sunday))
	require.Equal(t, "Agosto", l.MonthLabel(time.August))
}

func TestBuiltinLocale_ReturnsCopy(t *testing.T) {
	l, _ := BuiltinLocale("es")
	l.NoticePhrases[0] = "changed"

	again, _ := BuiltinLocale("es")
	require.Equal(t, "creó este grupo", again.NoticePhrases[0])
	require.Equal(t, []string{"en", "es"}, BuiltinLocaleNames())
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("CHATSTAT_X", "value")

	tests := map[string]string{
		"":              "",
		"plain":         "plain",
		"$CHATSTAT_X":   "value",
		"${CHATSTAT_X}": "value",
	}
	for in, want := range tests {
		if got := expandEnvVar(in); got != want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", in, got, want)
		}
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
