package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Cfg struct {
	Env            string        `mapstructure:"ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	WebServerPort  string        `mapstructure:"WEB_SERVER_PORT"`
	ViaCepBaseURL  string        `mapstructure:"VIACEP_BASE_URL"`
	ZipkinEndpoint string        `mapstructure:"ZIPKIN_ENDPOINT"`
	StorageDir     string        `mapstructure:"STORAGE_DIR"`
	SubmitDelay    time.Duration `mapstructure:"SUBMIT_DELAY"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WEB_SERVER_PORT", ":8080")
	v.SetDefault("VIACEP_BASE_URL", "https://viacep.com.br/ws")
	v.SetDefault("ZIPKIN_ENDPOINT", "http://zipkin:9411/api/v2/spans")
	v.SetDefault("STORAGE_DIR", "")
	v.SetDefault("SUBMIT_DELAY", time.Second)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
}

// LoadConfig reads path/.env when present; environment variables override
// the file and the defaults.
func LoadConfig(path string) (*Cfg, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("env")
	v.SetConfigFile(filepath.Join(path, ".env"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Cfg
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		cfg.Env = "prod"
	}
	if cfg.SubmitDelay <= 0 {
		return nil, fmt.Errorf("SUBMIT_DELAY must be positive, got %s", cfg.SubmitDelay)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}
