package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// TrustProxyHeaders がtrueの場合、X-Forwarded-For等からクライアントIPを解決する。
	// リバースプロキシ配下でのみ有効にする。
	TrustProxyHeaders bool

	// Logging
	LogLevel slog.Level

	// Rate Limit
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load は環境変数からConfigを読み込む。
// 必須の環境変数はなく、未設定または不正な値はデフォルト値で補う。
func Load() *Config {
	return &Config{
		ServerPort:         getEnvString("SERVER_PORT", "8080"),
		ReadTimeout:        getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getEnvDuration("WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),
		LogLevel:           getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		RateLimitPerMinute: getEnvPositiveInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvPositiveInt("RATE_LIMIT_BURST", 120),
	}
}

// Addr はhttp.Serverに渡すリッスンアドレスを返す。
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvPositiveInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// getEnvLevel はdebug/info/warn/errorをslog.Levelに変換する。大文字小文字は区別しない。
func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return defaultVal
	}
	return level
}
