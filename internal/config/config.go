package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Configはアプリ全体の設定。
// ローカル開発はデフォルトのままで動く。本番はJWT_SECRETを必ず差し替える。
type Config struct {
	Port string `env:"PORT" envDefault:"8080"` // サーバーポート

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"` // DBホスト
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`      // DBポート
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`  // DBユーザー
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"shop"` // DB名
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"` // JWT署名シークレット
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"10m"`            // アクセストークン有効期限

	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

// DSNはgorm/postgres用の接続文字列
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}
