package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	ModeProduction  = "production"
	ModeTest        = "test"
	ModeDevelopment = "development"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Profile is the fixed per-mode configuration record.
type Profile struct {
	Name        string
	Port        int
	DatabaseURI string
}

// SelectProfile maps a deployment mode to its profile. Unknown modes fall
// back to development.
func SelectProfile(mode string) Profile {
	switch mode {
	case ModeProduction:
		return Profile{Name: ModeProduction, Port: 8080}
	case ModeTest:
		return Profile{Name: ModeTest, Port: 3311, DatabaseURI: "mongodb://localhost:27017/test"}
	default:
		return Profile{Name: ModeDevelopment, Port: 3000, DatabaseURI: "mongodb://localhost:27017/blog"}
	}
}

type Config struct {
	Profile Profile
	Port    string
	BaseURL string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ElasticAddr     string
	ElasticUsername string
	ElasticPassword string

	LogLevel  string
	LogFormat string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvi(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, v)
	}
	return n, nil
}

// Load reads the environment once and validates the result.
func Load() (*Config, error) {
	profile := SelectProfile(os.Getenv("NODE_ENV"))

	port, err := getenvi("PORT", profile.Port)
	if err != nil {
		return nil, err
	}
	redisDB, err := getenvi("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	mongoURI := profile.DatabaseURI
	if profile.Name != ModeTest {
		mongoURI = getenv("MONGODB_DEV_URL", mongoURI)
	}

	cfg := &Config{
		Profile: profile,
		Port:    strconv.Itoa(port),
		BaseURL: strings.TrimRight(os.Getenv("BASE_URL"), "/"),

		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		MongoURI:      mongoURI,
		MongoDatabase: getenv("MONGODB_DATABASE", mongoDatabase(mongoURI)),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "blog"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		DBTimezone: getenv("DB_TIMEZONE", "UTC"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		ElasticAddr:     getenv("ELASTICSEARCH_ADDR", ""),
		ElasticUsername: getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticPassword: getenv("ELASTICSEARCH_PASSWORD", ""),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_DEV_URL is required in the %s profile", c.Profile.Name)
		}
		if _, err := connstring.ParseAndValidate(c.MongoURI); err != nil {
			return fmt.Errorf("MONGODB_DEV_URL: %w", err)
		}
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("BASE_URL: %q is not an http(s) origin", c.BaseURL)
		}
	}
	return nil
}

// GinMode returns the gin mode matching the selected profile.
func (c *Config) GinMode() string {
	switch c.Profile.Name {
	case ModeProduction:
		return gin.ReleaseMode
	case ModeTest:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// mongoDatabase returns the database named in a MongoDB connection string,
// or "blog".
func mongoDatabase(uri string) string {
	cs, err := connstring.Parse(uri)
	if err != nil || cs.Database == "" {
		return "blog"
	}
	return cs.Database
}
