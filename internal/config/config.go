package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the admin API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	EventChannelBase  string
	TimetableCacheTTL time.Duration
	CategoryPrefixes  map[string]string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// CategoryFor resolves the category bucket for a course name using the
// configured prefix table. The longest matching prefix wins.
func (c Config) CategoryFor(courseName string) (string, bool) {
	match := ""
	category := ""
	for prefix, cat := range c.CategoryPrefixes {
		if strings.HasPrefix(courseName, prefix) && len(prefix) > len(match) {
			match = prefix
			category = cat
		}
	}

	return category, match != ""
}

// Categories lists the configured category buckets in sorted order.
func (c Config) Categories() []string {
	seen := map[string]struct{}{}
	var categories []string
	for _, cat := range c.CategoryPrefixes {
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	return categories
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SIUROMA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Siuroma Kids Admin API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("timetable.cache_ttl", "5m")
	v.SetDefault("event.channel_base", "siuroma:schedule")
	v.SetDefault("category.prefixes", "SPEC:SPEC,WRIT:WRIT,ORAL:ORAL")

	ttlString := v.GetString("timetable.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timetable cache ttl: %w", err)
	}

	prefixes, err := parseCategoryPrefixes(v.GetString("category.prefixes"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		EventChannelBase:  v.GetString("event.channel_base"),
		TimetableCacheTTL: ttl,
		CategoryPrefixes:  prefixes,
	}

	return cfg, nil
}

// parseCategoryPrefixes expands a "prefix:category" pair list into the lookup
// table that replaces ad hoc string parsing of course names.
func parseCategoryPrefixes(raw string) (map[string]string, error) {
	prefixes := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("invalid category prefix entry %q", pair)
		}
		prefixes[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}

	if len(prefixes) == 0 {
		return nil, fmt.Errorf("category prefix table must not be empty")
	}

	return prefixes, nil
}
