// Package config loads mathquiz settings from an optional YAML file,
// MATHQUIZ_* environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Player   string         `mapstructure:"player"`
}

type QuizConfig struct {
	Questions          int           `mapstructure:"questions" validate:"gt=0,lte=100"`
	SecondsPerQuestion int           `mapstructure:"seconds_per_question" validate:"gt=0,lte=600"`
	CorrectDelay       time.Duration `mapstructure:"correct_delay" validate:"gte=0"`
	RevealDelay        time.Duration `mapstructure:"reveal_delay" validate:"gte=0"`
	Difficulty         string        `mapstructure:"difficulty" validate:"oneof=easy medium hard"`
}

type StorageConfig struct {
	// Path of the SQLite file. Empty means ~/.mathquiz/mathquiz.db.
	Path string `mapstructure:"path"`
}

// RedisConfig enables the Redis leaderboard when Addr is set.
type RedisConfig struct {
	Addr       string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db" validate:"gte=0"`
	MaxRetries int    `mapstructure:"max_retries" validate:"gte=0"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
	// IdleTimeout drops HTTP quizzes nobody has touched for this long.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

// DefaultPath is ~/.mathquiz/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mathquiz", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("quiz.questions", 10)
	v.SetDefault("quiz.seconds_per_question", 30)
	v.SetDefault("quiz.correct_delay", 1500*time.Millisecond)
	v.SetDefault("quiz.reveal_delay", 2*time.Second)
	v.SetDefault("quiz.difficulty", "easy")
	v.SetDefault("storage.path", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_retries", 5)
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.idle_timeout", 10*time.Minute)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("player", defaultPlayer())
}

func defaultPlayer() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(key); name != "" {
			return name
		}
	}
	return "player"
}

// Load reads configuration. A missing file at path is not an error unless
// the path was given explicitly.
func Load(path string, explicit bool) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MATHQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its validate tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config validation: %w", err)
		}
		var msgs []string
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s' (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("invalid config:\n- %s", strings.Join(msgs, "\n- "))
	}
	return nil
}
