package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-mem-payments/pkg/logger"
	"github.com/JoeShih716/go-mem-payments/pkg/mysql"
)

// DefaultPath 預設設定檔位置
const DefaultPath = "config/config.yaml"

// 輸出方式
const (
	OutputCSV   = "csv"
	OutputJSON  = "json"
	OutputMySQL = "mysql"
)

// 環境變數覆蓋設定檔，.env 亦可
const (
	EnvLogLevel      = "PAYMENTS_LOG_LEVEL"
	EnvOutputDriver  = "PAYMENTS_OUTPUT_DRIVER"
	EnvJournalPath   = "PAYMENTS_JOURNAL_PATH"
	EnvMySQLHost     = "PAYMENTS_MYSQL_HOST"
	EnvMySQLUser     = "PAYMENTS_MYSQL_USER"
	EnvMySQLPassword = "PAYMENTS_MYSQL_PASSWORD"
	EnvMySQLDBName   = "PAYMENTS_MYSQL_DBNAME"
)

type Config struct {
	Log     logger.Config `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
	Journal JournalConfig `yaml:"journal"`
	MySQL   mysql.Config  `yaml:"mysql"`
}

type OutputConfig struct {
	Driver string `yaml:"driver"` // csv | json | mysql
}

// JournalConfig 被丟棄資料列的 JSON Lines 檔，空字串表示不寫
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Default 沒有設定檔時使用
func Default() Config {
	var cfg Config
	cfg.setDefaults()
	return cfg
}

// Load 讀取設定檔，套用 .env 與環境變數，補全預設值並檢查
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	return finish(cfg)
}

// LoadOrDefault 設定檔不存在時使用預設值
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Config{})
	}
	return cfg, err
}

func finish(cfg Config) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv 不覆蓋已存在的環境變數；檔案不存在不算錯誤
func loadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	override(&c.Log.Level, EnvLogLevel)
	override(&c.Output.Driver, EnvOutputDriver)
	override(&c.Journal.Path, EnvJournalPath)
	override(&c.MySQL.Host, EnvMySQLHost)
	override(&c.MySQL.User, EnvMySQLUser)
	override(&c.MySQL.Password, EnvMySQLPassword)
	override(&c.MySQL.DBName, EnvMySQLDBName)
}

// setDefaults 補全 yaml 沒寫的欄位
func (c *Config) setDefaults() {
	if c.Log.Environment == "" {
		c.Log.Environment = logger.EnvironmentProduction
	}
	if c.Output.Driver == "" {
		c.Output.Driver = OutputCSV
	}
	if c.MySQL.Host == "" {
		c.MySQL.Host = "127.0.0.1"
	}
	c.MySQL.SetDefaults()
}

// Validate 檢查設定
func (c *Config) Validate() error {
	switch c.Output.Driver {
	case OutputCSV, OutputJSON:
	case OutputMySQL:
		if c.MySQL.DBName == "" {
			return errors.New("mysql.dbname is required when output.driver is mysql")
		}
	default:
		return fmt.Errorf("unknown output driver %q", c.Output.Driver)
	}
	if _, err := logger.ParseLevel(c.Log.Level, c.Log.Environment); err != nil {
		return err
	}
	return nil
}
