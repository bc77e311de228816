package config

import (
	"TripGenie-App/internal/domain/gate"
	"TripGenie-App/internal/domain/model"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort               = "8080"
	DefaultGeminiModel        = "gemini-2.5-flash"
	DefaultGenerationTimeout  = 90 * time.Second
	DefaultSessionTTL         = 2 * time.Hour
	DefaultMaxSessions        = 1000
	DefaultRateLimitPerMinute = 10
)

// Config はサーバーの設定値
type Config struct {
	Port               string
	GeminiAPIKey       string
	GeminiModel        string
	GenerationTimeout  time.Duration
	SessionTTL         time.Duration
	MaxSessions        int
	CORSAllowedOrigins []string
	RateLimitPerMinute int

	GateContinuation time.Duration
	GateExport       time.Duration
	GateDetailUnlock time.Duration
}

// Load は.envファイルと環境変数から設定を読み込む
// GEMINI_API_KEY が無い場合は *model.ConfigurationError を返す
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .envファイルが見つかりません。システムの環境変数を使用します")
	}
	return FromEnv()
}

// FromEnv は環境変数のみから設定を読み込む
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", DefaultPort),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  getEnv("GEMINI_MODEL", DefaultGeminiModel),
	}
	if cfg.GeminiAPIKey == "" {
		return nil, &model.ConfigurationError{Key: "GEMINI_API_KEY"}
	}

	var err error
	if cfg.GenerationTimeout, err = getDuration("GENERATION_TIMEOUT", DefaultGenerationTimeout); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", DefaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.MaxSessions, err = getInt("MAX_SESSIONS", DefaultMaxSessions); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMinute); err != nil {
		return nil, err
	}
	if cfg.GateContinuation, err = getDuration("GATE_CONTINUATION", gate.DefaultContinuationDuration); err != nil {
		return nil, err
	}
	if cfg.GateExport, err = getDuration("GATE_EXPORT", gate.DefaultExportDuration); err != nil {
		return nil, err
	}
	if cfg.GateDetailUnlock, err = getDuration("GATE_DETAIL_UNLOCK", gate.DefaultDetailUnlockDuration); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		cfg.CORSAllowedOrigins = nil
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}

	return cfg, nil
}

// Addr はListenAndServe用のアドレス
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getDuration は "90s" 形式または秒数の整数を受け付ける
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("%s: 正の値を指定してください: %q", key, raw)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: 期間の形式が正しくありません: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: 正の値を指定してください: %q", key, raw)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: 整数で指定してください: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: 正の値を指定してください: %d", key, n)
	}
	return n, nil
}
