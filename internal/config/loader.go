package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadSection populates a single configuration section, such as a
// *PasteConfig, from the environment without requiring the rest of Config.
// Command-line tools use it to share settings with the server.
func LoadSection(dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config section must be a pointer to a struct, got %T", dst)
	}
	if err := loadStruct(v.Elem()); err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	return nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadStruct populates struct fields from environment variables, recursing
// into nested sections. Every bad variable is reported, not just the first.
func loadStruct(v reflect.Value) error {
	var errs []error
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		name, value, ok := lookupEnv(field.Tag)
		if !ok {
			continue
		}
		if value == "" {
			if field.Tag.Get("required") == "true" {
				errs = append(errs, fmt.Errorf("required environment variable %s is not set", name))
			}
			continue
		}

		if err := setField(fieldVal, value, field.Tag.Get("unit")); err != nil {
			errs = append(errs, fmt.Errorf("invalid value for %s=%q: %w", name, value, err))
		}
	}

	return errors.Join(errs...)
}

var durationType = reflect.TypeOf(time.Duration(0))

// lookupEnv resolves a field's value from its env tag, then envAlt, then the
// default. ok is false for fields without an env tag.
func lookupEnv(tag reflect.StructTag) (name, value string, ok bool) {
	name = tag.Get("env")
	if name == "" {
		return "", "", false
	}
	if value = os.Getenv(name); value != "" {
		return name, value, true
	}
	if alt := tag.Get("envAlt"); alt != "" {
		if value = os.Getenv(alt); value != "" {
			return alt, value, true
		}
	}
	return name, tag.Get("default"), true
}

// setField parses value into field according to its kind. Integer fields
// tagged unit:"bytes" also accept KiB, MiB and GiB suffixes.
func setField(field reflect.Value, value, unit string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))

	case field.Kind() == reflect.Int || field.Kind() == reflect.Int64:
		parse := parseInt
		if unit == "bytes" {
			parse = parseByteSize
		}
		n, err := parse(value)
		if err != nil {
			return err
		}
		field.SetInt(n)

	case field.Kind() == reflect.String:
		field.SetString(value)

	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}
	return nil
}

func parseInt(value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	return n, nil
}

var byteUnits = []struct {
	suffix string
	size   int64
}{
	{"GiB", 1 << 30},
	{"MiB", 1 << 20},
	{"KiB", 1 << 10},
	{"B", 1},
}

// parseByteSize accepts a plain byte count or an integer with a binary unit,
// such as "512KiB" or "8 MiB".
func parseByteSize(value string) (int64, error) {
	value = strings.TrimSpace(value)
	mult := int64(1)
	for _, u := range byteUnits {
		if strings.HasSuffix(value, u.suffix) {
			value = strings.TrimSpace(strings.TrimSuffix(value, u.suffix))
			mult = u.size
			break
		}
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid byte size %q", value)
	}
	if n > math.MaxInt64/mult {
		return 0, fmt.Errorf("byte size %q overflows", value)
	}
	return n * mult, nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Paste validation
	if c.Paste.MaxBytes <= 0 {
		errs = append(errs, "PASTE_MAX_BYTES must be positive")
	}
	if c.Paste.MaxContentBytes < c.Paste.MaxBytes {
		errs = append(errs, fmt.Sprintf("POST_MAX_CONTENT_BYTES (%d) must be >= PASTE_MAX_BYTES (%d)",
			c.Paste.MaxContentBytes, c.Paste.MaxBytes))
	}
	if c.Paste.MaxConcurrent <= 0 {
		errs = append(errs, "PASTE_MAX_CONCURRENT must be positive")
	}
	if c.Paste.MaxWaitTime <= 0 {
		errs = append(errs, "PASTE_MAX_WAIT_TIME must be positive")
	}

	// Media validation
	if c.Media.YouTubeEmbedBase != "" && !strings.HasPrefix(c.Media.YouTubeEmbedBase, "https://") {
		errs = append(errs, fmt.Sprintf("MEDIA_YOUTUBE_EMBED_BASE (%q) must be an https URL", c.Media.YouTubeEmbedBase))
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.PasteLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_PASTE must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and API keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, ",
		c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Paste: {MaxBytes: %d, MaxConcurrent: %d, NormalizeUnicode: %v}, ",
		c.Paste.MaxBytes, c.Paste.MaxConcurrent, c.Paste.NormalizeUnicode))
	b.WriteString(fmt.Sprintf("Media: {ImageHosts: %d, YouTubeEmbedBase: %q}, ",
		len(c.Media.ImageHosts), c.Media.YouTubeEmbedBase))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d, PasteLimit: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute, c.Rate.PasteLimit))
	b.WriteString(fmt.Sprintf("Security: {RequireAPIKey: %v, APIKeys: [%d MASKED]}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
