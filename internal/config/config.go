package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr  string
	AppDomain string
	Debug     bool

	PracticesDir string
	ExamFile     string

	SessionBackend   string // sqlite|postgres|redis|memory
	SessionNamespace string

	DBDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogPath string

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		AppDomain: envOr("APP_DOMAIN", "saa-practice.local"),
		Debug:     envBool("DEBUG", false),

		PracticesDir: envOr("PRACTICES_DIR", "./practices"),
		ExamFile:     envOr("EXAM_FILE", "S-practice-exam.md"),

		SessionBackend:   envOr("SESSION_BACKEND", "sqlite"),
		SessionNamespace: envOr("SESSION_NAMESPACE", "exam_session_v1"),

		DBDSN: os.Getenv("DB_DSN"),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		LogPath: envOr("LOG_PATH", "logs/practiced.log"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
