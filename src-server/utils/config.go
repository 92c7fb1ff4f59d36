package utils

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	port string

	jwtSecret string
	jwtExpire time.Duration

	sqlitePath string

	location    *time.Location
	startOfWeek time.Weekday

	calendarName string

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		jwtSecret: func() string {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				slog.Warn("JWT_SECRET is not set")
				secret = "secret"
			}
			return secret
		}(),
		jwtExpire: func() time.Duration {
			jwtExpire := os.Getenv("JWT_EXPIRE")
			if jwtExpire == "" {
				slog.Warn("JWT_EXPIRE is not set")
				jwtExpire = "168h" // 1 week
			}
			duration, err := time.ParseDuration(jwtExpire)
			if err != nil {
				slog.Error("invalid JWT_EXPIRE", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "JWT_EXPIRE", jwtExpire, "duration", duration)
			return duration
		}(),

		sqlitePath: func() string {
			sqlitePath := os.Getenv("SQLITE_PATH")
			if sqlitePath == "" {
				sqlitePath = "./calbox.db"
			}
			slog.Debug("env", "SQLITE_PATH", sqlitePath)
			return sqlitePath
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
		startOfWeek: func() time.Weekday {
			startOfWeekStr := os.Getenv("START_OF_WEEK")
			if startOfWeekStr == "" {
				return time.Sunday
			}
			startOfWeek, err := strconv.Atoi(startOfWeekStr)
			if err != nil || startOfWeek < 0 || startOfWeek > 6 {
				slog.Error("invalid START_OF_WEEK, expected 0-6 with 0=Sunday", "value", startOfWeekStr)
				os.Exit(1)
			}
			slog.Debug("env", "START_OF_WEEK", startOfWeek)
			return time.Weekday(startOfWeek)
		}(),

		calendarName: func() string {
			calendarName := os.Getenv("CALENDAR_NAME")
			if calendarName == "" {
				calendarName = "calbox"
			}
			slog.Debug("env", "CALENDAR_NAME", calendarName)
			return calendarName
		}(),

		metricCollectionInterval: func() time.Duration {
			intervalStr := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if intervalStr == "" {
				return 5 * time.Minute
			}
			interval, err := time.ParseDuration(intervalStr)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", interval)
			return interval
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get JWT_SECRET env
func (c *Config) GetJWTSecret() string {
	return c.jwtSecret
}

// Get JWT_EXPIRE env
func (c *Config) GetJWTExpire() time.Duration {
	return c.jwtExpire
}

// Get SQLITE_PATH env
func (c *Config) GetSqlitePath() string {
	return c.sqlitePath
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get START_OF_WEEK env, default to Sunday
func (c *Config) GetStartOfWeek() time.Weekday {
	return c.startOfWeek
}

// Get CALENDAR_NAME env
func (c *Config) GetCalendarName() string {
	return c.calendarName
}

// Get METRIC_COLLECTION_INTERVAL env, default to 5m
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
