// Package config loads process configuration from the environment (with
// .env support), the way the richest example in the reference corpus
// does it.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process-wide, load-once configuration.
type Config struct {
	Env  string
	Port int

	CORS     CORSConfig
	Log      LogConfig
	Solver   SolverConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// CORSConfig holds the allowed UI origin list.
type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig holds the solver tuning knobs: planner and
// diagnostics time limits, optimality gap, default semester course
// limit, and the timetable enumeration cap.
type SolverConfig struct {
	PlannerTimeLimit     time.Duration
	DiagnosticsTimeLimit time.Duration
	TimetableTimeLimit   time.Duration
	OptimalityGap        float64
	SemesterCourseLimit  int
	TimetableEnumCap     int
}

// DatabaseConfig configures the optional Postgres-backed catalog
// loader. Empty URL means "use the embedded fixture".
type DatabaseConfig struct {
	URL string
}

// RedisConfig configures the optional solve-result cache. Empty Addr
// means "cache disabled".
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from the environment, falling back to the
// documented defaults when a variable is unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:  v.GetString("ENV"),
		Port: v.GetInt("PORT"),
		CORS: CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Solver: SolverConfig{
			PlannerTimeLimit:     parseDuration(v.GetString("PLANNER_TIME_LIMIT"), 5*time.Second),
			DiagnosticsTimeLimit: parseDuration(v.GetString("DIAGNOSTICS_TIME_LIMIT"), 60*time.Second),
			TimetableTimeLimit:   parseDuration(v.GetString("TIMETABLE_TIME_LIMIT"), 5*time.Second),
			OptimalityGap:        v.GetFloat64("OPTIMALITY_GAP"),
			SemesterCourseLimit:  v.GetInt("SEMESTER_COURSE_LIMIT"),
			TimetableEnumCap:     v.GetInt("TIMETABLE_ENUM_CAP"),
		},
		Database: DatabaseConfig{URL: v.GetString("DATABASE_URL")},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNER_TIME_LIMIT", "5s")
	v.SetDefault("DIAGNOSTICS_TIME_LIMIT", "60s")
	v.SetDefault("TIMETABLE_TIME_LIMIT", "5s")
	v.SetDefault("OPTIMALITY_GAP", 0.01)
	v.SetDefault("SEMESTER_COURSE_LIMIT", 5)
	v.SetDefault("TIMETABLE_ENUM_CAP", 10)

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
