package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Provider names accepted in TRANSLATION_PROVIDER / --provider.
const (
	ProviderGoogle = "google"
	ProviderGemini = "gemini"
)

type Config struct {
	Provider         string
	SourceLanguage   string
	GeminiAPIKey     string
	TranslationModel string
	Concurrency      int
	Timeout          time.Duration
	Extensions       []string
	DatabaseURL      string
	CacheSize        int
	Neo4jURI         string
	Neo4jUser        string
	Neo4jPassword    string
	LogLevel         string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Provider:         getEnv("TRANSLATION_PROVIDER", ProviderGoogle),
		SourceLanguage:   getEnv("SOURCE_LANGUAGE", "auto"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		TranslationModel: getEnv("TRANSLATION_MODEL", "gemini-2.5-flash"),
		Concurrency:      getEnvInt("TRANSLATE_CONCURRENCY", 1),
		Timeout:          getEnvDuration("TRANSLATE_TIMEOUT", 0),
		Extensions:       getEnvList("SCAN_EXTENSIONS", []string{".js", ".jsx", ".ts", ".tsx"}),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CacheSize:        getEnvInt("CACHE_SIZE", 4096),
		Neo4jURI:         getEnv("NEO4J_URI", ""),
		Neo4jUser:        getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

// ParseLanguages splits a comma-separated language list. Items are trimmed,
// empty items dropped and repeats removed, keeping first occurrences in order.
// Codes are not rewritten; codes that are not valid BCP 47 tags are logged
// and still passed on, the provider decides what it supports.
func ParseLanguages(list string) []string {
	var langs []string
	seen := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		code := strings.TrimSpace(item)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		if _, err := language.Parse(code); err != nil {
			log.Warn().Str("lang", code).Msg("Language code is not a valid BCP 47 tag")
		}
		langs = append(langs, code)
	}
	return langs
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
