package config

import (
	"fmt"
	"os"
	"strconv"

	"contactbook/internal/contacts/models"
)

// DefaultPageSize is used when CONTACTBOOK_PAGE_SIZE is unset.
const DefaultPageSize = 10

// Config captures process-level settings for the contact book.
type Config struct {
	LogLevel      string
	LogFormat     string
	PageSize      int
	PhoneMatching models.Matching
	Rollover      models.Rollover
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := Config{
		LogLevel:  get("CONTACTBOOK_LOG_LEVEL"),
		LogFormat: get("CONTACTBOOK_LOG_FORMAT"),
		PageSize:  DefaultPageSize,
	}

	if raw := get("CONTACTBOOK_PAGE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("CONTACTBOOK_PAGE_SIZE must be a positive integer, got %q", raw)
		}
		cfg.PageSize = n
	}

	m, err := models.ParseMatching(get("CONTACTBOOK_PHONE_MATCH"))
	if err != nil {
		return Config{}, fmt.Errorf("CONTACTBOOK_PHONE_MATCH: %w", err)
	}
	cfg.PhoneMatching = m

	r, err := models.ParseRollover(get("CONTACTBOOK_BIRTHDAY_ROLLOVER"))
	if err != nil {
		return Config{}, fmt.Errorf("CONTACTBOOK_BIRTHDAY_ROLLOVER: %w", err)
	}
	cfg.Rollover = r

	return cfg, nil
}
