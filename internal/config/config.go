package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

// windowDateLayout - формат дат окна выборки, m/d/yy.
const windowDateLayout = "1/2/06"

// Config представляет основную конфигурацию скрейпера событий.
type Config struct {
	Logger  LoggerConfig  `json:"logger"`
	App     AppConfig     `json:"app"`
	Storage StorageConfig `json:"storage"`
	Output  OutputConfig  `json:"output"`
}

// LoggerConfig содержит настройки системы логирования.
// Определяет уровень детализации логов (debug, info, warn, error).
type LoggerConfig struct {
	Level string `json:"level"`
}

// FeedURL представляет конфигурацию отдельной ленты.
type FeedURL struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// WindowConfig ограничивает выборку событий по дате начала.
// Формат дат m/d/yy, обе границы либо заданы, либо пусты.
type WindowConfig struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AppConfig содержит настройки бизнес-логики скрейпера.
type AppConfig struct {
	Feeds         []FeedURL    `json:"feeds"`
	PollInterval  string       `json:"poll_interval"`
	FetchTimeout  string       `json:"fetch_timeout"`
	RunOnce       bool         `json:"run_once"`
	EnrichDetails bool         `json:"enrich_details"`
	Window        WindowConfig `json:"window"`
}

// StorageConfig выбирает и настраивает бэкенд хранилища seen-состояния.
type StorageConfig struct {
	Driver   string            `json:"driver"`
	File     FileStorageConfig `json:"file"`
	Database DatabaseConfig    `json:"database"`
	Redis    RedisConfig       `json:"redis"`
}

type FileStorageConfig struct {
	Path string `json:"path"`
}

// DatabaseConfig содержит параметры подключения к PostgreSQL.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Key      string `json:"key"`
}

// OutputConfig перечисляет включенные приемники вывода.
// Допустимые имена: console, html, csv.
type OutputConfig struct {
	Sinks []string `json:"sinks"`
	Dir   string   `json:"dir"`
}

// DSN возвращает строку подключения к PostgreSQL в формате URI.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode)
}

// Load загружает конфигурацию из JSON-файла по указанному пути.
// Использует значения по умолчанию для незаданных полей.
func Load(configPath string) (*Config, error) {
	cfg := New()
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := json.Unmarshal(fileData, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from file %s: %w", configPath, err)
	}
	return cfg, nil
}

// New создает новый экземпляр Config со значениями по умолчанию.
func New() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level: "info",
		},
		App: AppConfig{
			PollInterval: "30m",
			FetchTimeout: "30s",
			Feeds:        []FeedURL{},
		},
		Storage: StorageConfig{
			Driver: "file",
			File: FileStorageConfig{
				Path: "seen_events.json",
			},
			Database: DatabaseConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
			Redis: RedisConfig{
				Addr: "localhost:6379",
				Key:  "physevents:seen",
			},
		},
		Output: OutputConfig{
			Sinks: []string{"console"},
			Dir:   "digests",
		},
	}
}

// ParseWindow возвращает границы окна выборки.
// Пустое окно дает нулевые значения.
func (c *AppConfig) ParseWindow() (time.Time, time.Time, error) {
	if c.Window.Start == "" && c.Window.End == "" {
		return time.Time{}, time.Time{}, nil
	}
	start, err := time.Parse(windowDateLayout, c.Window.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid app.window.start: %w", err)
	}
	end, err := time.Parse(windowDateLayout, c.Window.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid app.window.end: %w", err)
	}
	// Конец окна включает весь последний день.
	end = end.Add(24*time.Hour - time.Nanosecond)
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("app.window.start must be before app.window.end")
	}
	return start, end, nil
}

// Validate проверяет корректность конфигурации.
// Возвращает ошибку с описанием первой найденной проблемы.
func (c *Config) Validate() error {
	if len(c.App.Feeds) == 0 {
		return fmt.Errorf("app.feeds must not be empty")
	}
	for _, feed := range c.App.Feeds {
		if _, err := url.ParseRequestURI(feed.URL); err != nil {
			return fmt.Errorf("invalid url in app.feeds: %s", feed.URL)
		}
		if feed.Name == "" {
			return fmt.Errorf("feed name cannot be empty for url: %s", feed.URL)
		}
	}
	if _, err := time.ParseDuration(c.App.PollInterval); err != nil {
		return fmt.Errorf("invalid app.poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.App.FetchTimeout); err != nil {
		return fmt.Errorf("invalid app.fetch_timeout: %w", err)
	}
	if (c.App.Window.Start == "") != (c.App.Window.End == "") {
		return fmt.Errorf("app.window requires both start and end")
	}
	if _, _, err := c.App.ParseWindow(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case "file":
		if c.Storage.File.Path == "" {
			return fmt.Errorf("storage.file.path is not set")
		}
	case "postgres":
		if c.Storage.Database.Host == "" {
			return fmt.Errorf("storage.database.host is not set")
		}
		if c.Storage.Database.Username == "" {
			return fmt.Errorf("storage.database.username is not set")
		}
		if c.Storage.Database.Password == "" {
			return fmt.Errorf("storage.database.password is not set")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is not set")
		}
	default:
		return fmt.Errorf("unknown storage.driver: %s", c.Storage.Driver)
	}
	if len(c.Output.Sinks) == 0 {
		return fmt.Errorf("output.sinks must not be empty")
	}
	for _, name := range c.Output.Sinks {
		switch name {
		case "console", "html", "csv":
		default:
			return fmt.Errorf("unknown sink in output.sinks: %s", name)
		}
	}
	return nil
}
