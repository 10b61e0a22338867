package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Arena  ArenaConfig
	Auth   AuthConfig
	DB     DBConfig
	Log    LogConfig
}

type ServerConfig struct {
	Address        string
	AllowedOrigins []string `mapstructure:"allowed_origins"` // 空值代表允許所有來源
}

type ArenaConfig struct {
	SlotCount    int `mapstructure:"slot_count"`
	ChatCapacity int `mapstructure:"chat_capacity"`
	SendBuffer   int `mapstructure:"send_buffer"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"` // 空值時信任客戶端送來的 username
}

type DBConfig struct {
	Enabled  bool
	Host     string
	User     string
	Password string
	Name     string
	Port     int
	TimeZone string `mapstructure:"timezone"`
}

type LogConfig struct {
	Level  string
	Format string
}

// Load 讀取 ./pkg/config/config.yaml（或 ARENA_CONFIG 指定的檔案），
// 並允許以 ARENA_ 開頭的環境變數覆寫，例如 ARENA_SERVER_ADDRESS。
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("ARENA_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./pkg/config")
	}

	v.SetEnvPrefix("arena")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 沒有設定檔時使用預設值
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":4000")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("arena.slot_count", 4)
	v.SetDefault("arena.chat_capacity", 500)
	v.SetDefault("arena.send_buffer", 256)

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "code_arena")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.timezone", "UTC")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
