package compose

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by ConfigFromEnvironment.
// Nested keys use a double underscore: COMPOSE_PALETTE__ACCENT.
const EnvPrefix = "COMPOSE_"

// Palette holds the colours builders pull from the style registry.
// Every value is a 6-digit hex RGB string without '#'. HeaderFill and Rule
// follow Accent when left empty.
type Palette struct {
	Accent     string `koanf:"accent" validate:"rgb"`
	Text       string `koanf:"text" validate:"rgb"`
	Muted      string `koanf:"muted" validate:"rgb"`
	HeaderFill string `koanf:"header_fill" validate:"omitempty,rgb"`
	HeaderText string `koanf:"header_text" validate:"rgb"`
	Rule       string `koanf:"rule" validate:"omitempty,rgb"`
}

// resolved returns the palette with empty accent-derived colours filled in.
func (p Palette) resolved() Palette {
	if p.HeaderFill == "" {
		p.HeaderFill = p.Accent
	}
	if p.Rule == "" {
		p.Rule = p.Accent
	}
	return p
}

// Config contains all configuration options for a composition session
type Config struct {
	// LogLevel controls the verbosity of logging (trace, debug, info, warn, error, off)
	LogLevel string `koanf:"log_level" validate:"oneof=trace debug info warn error off"`
	// FontFamily is the document default font
	FontFamily string `koanf:"font_family" validate:"required"`
	// BaseSizePt is the Normal style font size in points
	BaseSizePt float64 `koanf:"base_size_pt" validate:"gt=0,lte=72"`
	// PageSize is one of letter, legal, a4
	PageSize string `koanf:"page_size" validate:"oneof=letter legal a4"`
	// MarginsIn is the page margin on every side, in inches
	MarginsIn float64 `koanf:"margins_in" validate:"gte=0,lt=4"`
	// Language is the proofing language of the document default run properties
	Language string  `koanf:"language" validate:"omitempty,bcp47_language_tag"`
	Palette  Palette `koanf:"palette"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("rgb", func(fl validator.FieldLevel) bool {
		return isRGB(fl.Field().String())
	})
	return v
}

func isRGB(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeColor strips a leading '#' and upper-cases a hex colour.
func NormalizeColor(s string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		FontFamily: "Calibri",
		BaseSizePt: 11,
		PageSize:   "letter",
		MarginsIn:  1,
		Language:   "en-US",
		Palette: Palette{
			Accent:     "7C3AED",
			Text:       "333333",
			Muted:      "666666",
			HeaderText: "FFFFFF",
		},
	}
}

// defaultsMap flattens the defaults for the koanf confmap provider.
func defaultsMap() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"log_level":           d.LogLevel,
		"font_family":         d.FontFamily,
		"base_size_pt":        d.BaseSizePt,
		"page_size":           d.PageSize,
		"margins_in":          d.MarginsIn,
		"language":            d.Language,
		"palette.accent":      d.Palette.Accent,
		"palette.text":        d.Palette.Text,
		"palette.muted":       d.Palette.Muted,
		"palette.header_fill": d.Palette.HeaderFill,
		"palette.header_text": d.Palette.HeaderText,
		"palette.rule":        d.Palette.Rule,
	}
}

// envKey maps COMPOSE_PALETTE__HEADER_FILL to palette.header_fill.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// ConfigFromEnvironment creates a configuration from the defaults overlaid
// with COMPOSE_* environment variables
func ConfigFromEnvironment() (*Config, error) {
	return loadConfig("")
}

// LoadConfig creates a configuration from the defaults, the given YAML or
// TOML file, then COMPOSE_* environment variables, in that order
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, NewConfigurationError(CodeInvalidConfig, "", "config path is empty")
	}
	return loadConfig(path)
}

func loadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, NewIOError("load config", path, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, &ConfigurationError{Code: CodeInvalidConfig, Message: "failed to unmarshal configuration", Block: noBlock, Cause: err}
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, NewConfigurationError(CodeInvalidConfig, "", fmt.Sprintf("unsupported config format %q", filepath.Ext(path)))
	}
}

// Normalize canonicalizes case and colour notation in place
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.PageSize = strings.ToLower(strings.TrimSpace(c.PageSize))
	p := &c.Palette
	for _, field := range []*string{&p.Accent, &p.Text, &p.Muted, &p.HeaderFill, &p.HeaderText, &p.Rule} {
		*field = NormalizeColor(*field)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ConfigurationError{Code: CodeInvalidConfig, Block: noBlock, Cause: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	code := CodeInvalidConfig
	if verrs[0].Tag() == "rgb" {
		code = CodeInvalidColor
	}
	return &ConfigurationError{
		Code:    code,
		Message: "invalid configuration: " + strings.Join(fields, ", "),
		Block:   noBlock,
		Cause:   err,
	}
}
