// Package config loads and validates process configuration from environment
// variables and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jhyun-dev/court-watcher/internal/court"
)

// Config holds all settings for the watcher process. Required settings that
// are missing fail the load; nothing retries at runtime.
type Config struct {
	CourtViewURL        string
	CourtReservationURL string

	HolidayAPIURL        string
	HolidayAPIServiceKey string

	Targets []court.Target

	IntervalMinutes int
	ListenPort      int

	// Day-classification settings. SpecialWeekday is a time.Weekday value
	// (0=Sunday); -1 disables the special-weekday rule. NightTimes, when
	// set, is an explicit whitelist of admitted start times and overrides
	// the NightStartHour cutoff.
	SpecialWeekday int
	NightStartHour int
	NightTimes     []string

	MessengerEnabled bool
	MessengerAPIURL  string
	MessengerRoom    string

	TalkEnabled      bool
	TalkBaseURL      string
	TalkBotToken     string
	TalkSharedSecret string

	EmailEnabled  bool
	SMTPHost      string
	SMTPPort      string
	EmailUsername string
	EmailPassword string
	ReceiverEmail string

	TwitterEnabled bool

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if
// present). godotenv.Load will not override variables already set in the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	if cfg.CourtViewURL, err = required("COURT_VIEW_URL"); err != nil {
		return nil, err
	}
	if cfg.CourtReservationURL, err = required("COURT_RESERVATION_URL"); err != nil {
		return nil, err
	}
	if cfg.HolidayAPIURL, err = required("HOLIDAY_API_URL"); err != nil {
		return nil, err
	}
	if cfg.HolidayAPIServiceKey, err = required("HOLIDAY_API_SERVICE_KEY"); err != nil {
		return nil, err
	}

	targetsSpec, err := required("WATCH_TARGETS")
	if err != nil {
		return nil, err
	}
	if cfg.Targets, err = ParseTargets(targetsSpec); err != nil {
		return nil, err
	}

	if cfg.IntervalMinutes, err = requiredInt("INTERVAL_MINUTES"); err != nil {
		return nil, err
	}
	if cfg.IntervalMinutes < 1 {
		return nil, fmt.Errorf("INTERVAL_MINUTES must be at least 1")
	}
	if cfg.ListenPort, err = requiredInt("LISTEN_PORT"); err != nil {
		return nil, err
	}

	cfg.SpecialWeekday = intOr("SPECIAL_WEEKDAY", 3)
	if cfg.SpecialWeekday > 6 {
		return nil, fmt.Errorf("SPECIAL_WEEKDAY must be -1 or a weekday number 0-6")
	}
	cfg.NightStartHour = intOr("NIGHT_START_HOUR", 19)
	if raw := os.Getenv("NIGHT_TIMES"); raw != "" {
		cfg.NightTimes = splitList(raw, ",")
	}

	cfg.MessengerEnabled = os.Getenv("MESSENGER_ENABLED") == "true"
	if cfg.MessengerEnabled {
		if cfg.MessengerAPIURL, err = required("MESSENGER_API_URL"); err != nil {
			return nil, err
		}
		if cfg.MessengerRoom, err = required("MESSENGER_ROOM"); err != nil {
			return nil, err
		}
	}

	cfg.TalkEnabled = os.Getenv("NEXTCLOUD_ENABLED") == "true"
	if cfg.TalkEnabled {
		if cfg.TalkBaseURL, err = required("NEXTCLOUD_BASE_URL"); err != nil {
			return nil, err
		}
		if cfg.TalkBotToken, err = required("NEXTCLOUD_BOT_TOKEN"); err != nil {
			return nil, err
		}
		if cfg.TalkSharedSecret, err = required("NEXTCLOUD_SHARED_SECRET"); err != nil {
			return nil, err
		}
	}

	cfg.EmailEnabled = os.Getenv("EMAIL_ENABLED") == "true"
	if cfg.EmailEnabled {
		if cfg.SMTPHost, err = required("SMTP_HOST"); err != nil {
			return nil, err
		}
		cfg.SMTPPort = envOr("SMTP_PORT", "587")
		if cfg.EmailUsername, err = required("EMAIL_USERNAME"); err != nil {
			return nil, err
		}
		if cfg.EmailPassword, err = required("EMAIL_PASSWORD"); err != nil {
			return nil, err
		}
		if cfg.ReceiverEmail, err = required("RECEIVER_EMAIL"); err != nil {
			return nil, err
		}
	}

	cfg.TwitterEnabled = os.Getenv("TWITTER_ENABLED") == "true"

	cfg.LogLevel = envOr("LOG_LEVEL", "info")
	cfg.Environment = strings.ToLower(envOr("ENVIRONMENT", "development"))

	return cfg, nil
}

// ParseTargets parses the WATCH_TARGETS value. Each target is
// "name:courtType:flag1,flag2,..."; targets are separated by ";".
// Example: "새물공원:8:07,08,09;서조체육시설:9:04,05,06,07".
func ParseTargets(spec string) ([]court.Target, error) {
	var targets []court.Target
	for _, entry := range splitList(spec, ";") {
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid WATCH_TARGETS entry %q (want name:type:flags)", entry)
		}
		name := strings.TrimSpace(parts[0])
		courtType := strings.TrimSpace(parts[1])
		numbers := splitList(parts[2], ",")
		if name == "" || courtType == "" || len(numbers) == 0 {
			return nil, fmt.Errorf("invalid WATCH_TARGETS entry %q (want name:type:flags)", entry)
		}
		targets = append(targets, court.Target{
			Name:         name,
			CourtType:    courtType,
			CourtNumbers: numbers,
		})
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("WATCH_TARGETS defines no targets")
	}
	return targets, nil
}

func required(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return v, nil
}

func requiredInt(key string) (int, error) {
	raw, err := required(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
