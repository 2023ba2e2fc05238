package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "TRENDING_NEWS_CONFIG"

	storyListURLEnv  = "google_news_url"
	storageDirEnv    = "temp_folder"
	summaryURLEnv    = "API_pegasus"
	summaryKeyEnv    = "pegasus_authorisation_key"
	classifierURLEnv = "API_Deberta"
	classifierKeyEnv = "deberta_authorisation_key"
	ledgerBackendEnv = "LEDGER_BACKEND"
	ledgerDSNEnv     = "LEDGER_DSN"
	httpAddrEnv      = "HTTP_ADDR"
	logLevelEnv      = "LOG_LEVEL"
	cronExprEnv      = "CRON_EXPRESSION"
)

// Ledger backends.
const (
	LedgerCSV      = "csv"
	LedgerSQLite   = "sqlite"
	LedgerPostgres = "postgres"
)

// Config holds every setting of one pipeline deployment.
type Config struct {
	Trends     TrendsConfig     `yaml:"trends"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Retry      RetryConfig      `yaml:"retry"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TrendsConfig describes the trend source endpoints and filters.
type TrendsConfig struct {
	StoryListURL      string        `yaml:"storyListUrl"`
	StoryDetailURL    string        `yaml:"storyDetailUrl"`
	LocaleSuffix      string        `yaml:"localeSuffix"`
	MinLatestArticles int           `yaml:"minLatestArticles"`
	RequestInterval   time.Duration `yaml:"requestInterval"`
	UserAgent         string        `yaml:"userAgent"`
	Timeout           time.Duration `yaml:"timeout"`
}

// ExtractorConfig tunes article downloads.
type ExtractorConfig struct {
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	MinDelay  time.Duration `yaml:"minDelay"`
	MaxDelay  time.Duration `yaml:"maxDelay"`
}

// SummarizerConfig points at the hosted summarization model.
type SummarizerConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"apiKey"`
	MinWords   int    `yaml:"minWords"`
	WindowSize int    `yaml:"windowSize"`
	MaxWords   int    `yaml:"maxWords"`
}

// ClassifierConfig points at the hosted zero-shot classification model.
type ClassifierConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	APIKey      string  `yaml:"apiKey"`
	Threshold   float64 `yaml:"threshold"`
	MaxKeywords int     `yaml:"maxKeywords"`
}

// RetryConfig bounds the cold-start retry loop of the inference clients.
type RetryConfig struct {
	MaxAttempts   int           `yaml:"maxAttempts"`
	MaxTotalDelay time.Duration `yaml:"maxTotalDelay"`
	Padding       time.Duration `yaml:"padding"`
}

// StorageConfig locates the ledger and snapshot.
type StorageConfig struct {
	Dir           string `yaml:"dir"`
	LedgerBackend string `yaml:"ledgerBackend"`
	LedgerDSN     string `yaml:"ledgerDsn"`
}

// LedgerPath is the CSV ledger location.
func (s StorageConfig) LedgerPath() string {
	return filepath.Join(s.Dir, "all_trending_ids.csv")
}

// SnapshotPath is the CSV snapshot location.
func (s StorageConfig) SnapshotPath() string {
	return filepath.Join(s.Dir, "current_trending_news.csv")
}

// ServerConfig configures the serving layer.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SchedulerConfig defines when the pipeline should run on its own.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env, the YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg := cfg
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{storyListURLEnv, &c.Trends.StoryListURL},
		{storageDirEnv, &c.Storage.Dir},
		{summaryURLEnv, &c.Summarizer.Endpoint},
		{summaryKeyEnv, &c.Summarizer.APIKey},
		{classifierURLEnv, &c.Classifier.Endpoint},
		{classifierKeyEnv, &c.Classifier.APIKey},
		{ledgerBackendEnv, &c.Storage.LedgerBackend},
		{ledgerDSNEnv, &c.Storage.LedgerDSN},
		{httpAddrEnv, &c.Server.Addr},
		{logLevelEnv, &c.Logging.Level},
		{cronExprEnv, &c.Scheduler.CronExpression},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Trends: TrendsConfig{
			StoryListURL:      "https://trends.google.com/trends/api/stories/latest?hl=en-US&tz=-330&cat=all&fi=0&fs=0&geo=US&ri=300&rs=20&sort=0",
			StoryDetailURL:    "https://trends.google.com/trends/api/stories/%s?hl=en-US&tz=-330",
			LocaleSuffix:      "en",
			MinLatestArticles: 2,
			RequestInterval:   5 * time.Second,
			UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_3) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/35.0.1916.47 Safari/537.36",
			Timeout:           30 * time.Second,
		},
		Extractor: ExtractorConfig{
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:78.0) Gecko/20100101 Firefox/78.0",
			Timeout:   25 * time.Second,
			MinDelay:  2 * time.Second,
			MaxDelay:  5 * time.Second,
		},
		Summarizer: SummarizerConfig{
			Endpoint:   "https://api-inference.huggingface.co/models/google/pegasus-cnn_dailymail",
			MinWords:   60,
			WindowSize: 1000,
			MaxWords:   1000,
		},
		Classifier: ClassifierConfig{
			Endpoint:    "https://api-inference.huggingface.co/models/MoritzLaurer/DeBERTa-v3-base-mnli-fever-anli",
			Threshold:   0.2,
			MaxKeywords: 3,
		},
		Retry: RetryConfig{
			MaxAttempts:   10,
			MaxTotalDelay: 10 * time.Minute,
			Padding:       5 * time.Second,
		},
		Storage: StorageConfig{
			Dir:           "data",
			LedgerBackend: LedgerCSV,
		},
		Server:    ServerConfig{Addr: ":5000"},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}
