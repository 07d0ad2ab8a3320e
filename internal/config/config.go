package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

/*
init : 設置 viper watch 與 onConfigChange
read : 一般讀取, 需要讀寫鎖
*/
var configSingleton *ConfigSingleton
var muonce sync.Once

const configFileEnv = "POS_CONFIG_FILE"

type ConfigSingleton struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	APIBaseURL          string        `mapstructure:"API_BASE_URL"`
	RequestTimeout      time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	DefaultCustomerName string        `mapstructure:"DEFAULT_CUSTOMER_NAME"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	LogPretty           bool          `mapstructure:"LOG_PRETTY"`
	LogFile             string        `mapstructure:"LOG_FILE"`
	RedisAddr           string        `mapstructure:"REDIS_ADDR"`
	RedisPassword       string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB             int           `mapstructure:"REDIS_DB"`
	CatalogSnapshotTTL  time.Duration `mapstructure:"CATALOG_SNAPSHOT_TTL"`
	CommandTTL          time.Duration `mapstructure:"COMMAND_TTL"`
	KafkaBrokers        string        `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic     string        `mapstructure:"KAFKA_ORDER_TOPIC"`
	MetricsAddr         string        `mapstructure:"METRICS_ADDR"`
	StubAddr            string        `mapstructure:"STUB_ADDR"`
	StubPayRatePS       int           `mapstructure:"STUB_PAY_RATE_PS"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("DEFAULT_CUSTOMER_NAME", "Khách lẻ")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_SNAPSHOT_TTL", 24*time.Hour)
	v.SetDefault("COMMAND_TTL", 10*time.Minute)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_ORDER_TOPIC", "pos.orders")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("STUB_ADDR", ":5000")
	v.SetDefault("STUB_PAY_RATE_PS", 20)
}

// RedisEnabled 未設定 REDIS_ADDR 時不使用快照與命令去重
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// ForTUI 回傳副本, 未設定 LOG_FILE 時改寫到 logFile
// bubbletea 佔用終端, log 不能輸出到 stderr
func (c *Config) ForTUI(logFile string) *Config {
	cp := *c
	if strings.TrimSpace(cp.LogFile) == "" {
		cp.LogFile = logFile
	}
	return &cp
}

func (c *Config) KafkaEnabled() bool {
	return len(c.Brokers()) > 0
}

func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.Config
}

func initConfig() {
	muonce.Do(func() {
		configSingleton = &ConfigSingleton{}
		v := viper.New()
		cf, err := loadConfig(v, configFilePath())
		if err != nil {
			log.Fatalf("error read config: %v", err)
		}
		configSingleton.Config = cf
		if v.ConfigFileUsed() == "" {
			return
		}
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			cf, err := loadConfig(v, e.Name)
			if err != nil {
				log.Printf("failed to reload config file %s: %v", e.Name, err)
				return
			}
			configSingleton.mu.Lock()
			configSingleton.Config = cf
			configSingleton.mu.Unlock()
		})
	})
}

// Load 讀取指定的設定檔(可不存在)並疊上環境變數, 不影響 singleton
func Load(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

/*
單純回傳錯誤, 由外部決定要不要 Fatal
設定檔不存在時只使用環境變數與預設值
*/
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	return cf, nil
}

func configFilePath() string {
	if p := strings.TrimSpace(os.Getenv(configFileEnv)); p != "" {
		return p
	}
	return ".env"
}
