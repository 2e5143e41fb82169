package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Auth         AuthConfig         `yaml:"auth"`
	Assistant    AssistantConfig    `yaml:"assistant"`
	Intelligence IntelligenceConfig `yaml:"intelligence"`
	Activity     ActivityConfig     `yaml:"activity"`
	Notify       NotifyConfig       `yaml:"notify"`
	Snapshot     SnapshotConfig     `yaml:"snapshot"`
	CORS         CORSConfig         `yaml:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifeMins int    `yaml:"conn_max_life_mins"`
}

// ConnMaxLifetime returns the connection lifetime as a duration
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifeMins) * time.Minute
}

// RedisConfig holds the activity-log Redis settings
type RedisConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// AuthConfig holds Google OAuth authentication configuration
type AuthConfig struct {
	Enabled            bool   `yaml:"enabled"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	AllowedDomain      string `yaml:"allowed_domain"`
	SessionSecret      string `yaml:"session_secret"`
	CookieName         string `yaml:"cookie_name"`
	CookieMaxAge       int    `yaml:"cookie_max_age"`
}

// AssistantConfig holds the Bedrock chat assistant configuration
type AssistantConfig struct {
	Enabled bool   `yaml:"enabled"`
	ModelID string `yaml:"model_id"`
	Region  string `yaml:"region"`
}

// IntelligenceConfig holds thresholds for the intelligence refresh service.
// These are product settings, not domain truth; the defaults mirror the
// original dashboard's behavior.
type IntelligenceConfig struct {
	SpendAlertThreshold    float64  `yaml:"spend_alert_threshold"`     // monthly ad spend above this → High Ad Spend alert
	NegativeSentimentShare float64  `yaml:"negative_sentiment_share"`  // share of negative mentions above this → Negative Sentiment alert
	MaxAdSpend             float64  `yaml:"max_ad_spend"`              // upper bound for synthesized spend
	RefreshIntervalSeconds int      `yaml:"refresh_interval_seconds"`  // worker refresh cadence
	FeedURLs               []string `yaml:"feed_urls"`                 // live intelligence feed sources
}

// RefreshInterval returns the worker refresh cadence as a duration
func (c IntelligenceConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// ActivityConfig holds activity-log settings
type ActivityConfig struct {
	PollIntervalSeconds int   `yaml:"poll_interval_seconds"`
	MaxEntries          int64 `yaml:"max_entries"`
}

// PollInterval returns the activity refetch cadence as a duration
func (c ActivityConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// NotifyConfig holds SES alert email settings
type NotifyConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Region      string `yaml:"region"`
	FromAddress string `yaml:"from_address"`
	ToAddress   string `yaml:"to_address"`
}

// SnapshotConfig holds analytics snapshot archive settings
type SnapshotConfig struct {
	Type          string `yaml:"type"` // "local" or "aws"
	LocalPath     string `yaml:"local_path"`
	S3Bucket      string `yaml:"s3_bucket"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	AWSRegion     string `yaml:"aws_region"`
	AWSProfile    string `yaml:"aws_profile"` // Empty string uses default credential chain
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c SnapshotConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	// On ECS/Lambda, use the IAM role instead of a profile
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// CORSConfig holds allowed SPA origins
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifeMins == 0 {
		cfg.Database.ConnMaxLifeMins = 5
	}
	if cfg.Assistant.ModelID == "" {
		cfg.Assistant.ModelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
	if cfg.Assistant.Region == "" {
		cfg.Assistant.Region = "us-east-1"
	}
	if cfg.Intelligence.SpendAlertThreshold == 0 {
		cfg.Intelligence.SpendAlertThreshold = 30000
	}
	if cfg.Intelligence.NegativeSentimentShare == 0 {
		cfg.Intelligence.NegativeSentimentShare = 0.30
	}
	if cfg.Intelligence.MaxAdSpend == 0 {
		cfg.Intelligence.MaxAdSpend = 50000
	}
	if cfg.Intelligence.RefreshIntervalSeconds == 0 {
		cfg.Intelligence.RefreshIntervalSeconds = 900
	}
	if cfg.Activity.PollIntervalSeconds == 0 {
		cfg.Activity.PollIntervalSeconds = 15
	}
	if cfg.Activity.MaxEntries == 0 {
		cfg.Activity.MaxEntries = 500
	}
	if cfg.Notify.Region == "" {
		cfg.Notify.Region = "us-west-2"
	}
	if cfg.Snapshot.Type == "" {
		cfg.Snapshot.Type = "local"
	}
	if cfg.Snapshot.LocalPath == "" {
		cfg.Snapshot.LocalPath = "./data/snapshots"
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "marketscout_session"
	}
	if cfg.Auth.CookieMaxAge == 0 {
		cfg.Auth.CookieMaxAge = 86400
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Auth.GoogleClientSecret = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("AUTH_ALLOWED_DOMAIN"); v != "" {
		cfg.Auth.AllowedDomain = v
	}
	if v := os.Getenv("BEDROCK_MODEL_ID"); v != "" {
		cfg.Assistant.ModelID = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Assistant.Region = v
	}
	if v := os.Getenv("SNAPSHOT_S3_BUCKET"); v != "" {
		cfg.Snapshot.S3Bucket = v
	}
	if v := os.Getenv("SNAPSHOT_DYNAMODB_TABLE"); v != "" {
		cfg.Snapshot.DynamoDBTable = v
	}

	return cfg, nil
}
