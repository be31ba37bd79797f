package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// envOverrides holds the CHATSTAT_* environment variables.
type envOverrides struct {
	LogLevel  string `envconfig:"LOG_LEVEL"`
	Locale    string `envconfig:"LOCALE"`
	TopEmojis *int   `envconfig:"TOP_EMOJIS"`
	TopWords  *int   `envconfig:"TOP_WORDS"`
}

// Load reads and validates a configuration file.
// An empty path yields the built-in defaults, still subject to environment overrides.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(_ context.Context, path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg, err := build(data, isTOML(path), env)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// build decodes data over the defaults. The locale named by the environment
// or the file is loaded first so the file's locale block only overrides fields.
func build(data []byte, asTOML bool, env envOverrides) (*Config, error) {
	cfg := DefaultConfig()

	var header struct {
		LocaleName string `yaml:"locale_name" toml:"locale_name"`
	}
	if err := decode(data, asTOML, &header); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	name := DefaultLocale
	switch {
	case env.Locale != "":
		name = env.Locale
	case header.LocaleName != "":
		name = header.LocaleName
	}

	base, ok := BuiltinLocale(name)
	if !ok {
		// Custom locale: the file must define every table.
		base = LocaleConfig{Name: name}
	}
	cfg.Locale = base

	if err := decode(data, asTOML, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.LocaleName = name

	env.apply(cfg)
	return cfg, nil
}

func decode(data []byte, asTOML bool, v any) error {
	if len(data) == 0 {
		return nil
	}
	if asTOML {
		_, err := toml.Decode(string(data), v)
		return err
	}
	return yaml.Unmarshal(data, v)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (e envOverrides) apply(cfg *Config) {
	if e.LogLevel != "" {
		cfg.LogLevel = strings.ToUpper(e.LogLevel)
	}
	if e.TopEmojis != nil {
		cfg.Report.TopEmojis = *e.TopEmojis
	}
	if e.TopWords != nil {
		cfg.Report.TopWords = *e.TopWords
	}
}

// Validate checks a configuration for errors and compiles the locale grammar.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return validationError(err)
	}

	if err := compileLocale(&cfg.Locale); err != nil {
		return fmt.Errorf("locale %q: %w", cfg.Locale.Name, err)
	}

	for i := range cfg.Webhooks {
		applyWebhookDefaults(&cfg.Webhooks[i])
	}

	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func compileLocale(l *LocaleConfig) error {
	ts, err := regexp.Compile(l.TimestampPattern)
	if err != nil {
		return fmt.Errorf("invalid timestamp_pattern: %w", err)
	}
	if ts.NumSubexp() != 0 {
		return errors.New("timestamp_pattern must not contain capture groups")
	}

	prefix := `^\[(` + l.TimestampPattern + `)\] `
	l.compiledAuthored = regexp.MustCompile(prefix + `([^:]+): (.*)`)
	l.compiledNotice = regexp.MustCompile(prefix + `(.*)`)
	return nil
}

func applyWebhookDefaults(wh *WebhookConfig) {
	wh.Token = expandEnvVar(wh.Token)
	if wh.Trigger == "" {
		wh.Trigger = WebhookTriggerOnEvents
	}
	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}
