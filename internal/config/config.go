package config

import (
	"fmt"
	"os"
	"strings"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseDSN string // Postgres接続文字列

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod
	FEURL string // フロントURL（確認リンクやCheckoutの戻り先）

	StripeSecretKey     string // Stripe APIキー
	StripeWebhookSecret string // Webhook署名シークレット
	CheckoutSuccessURL  string // 決済成功後の戻り先
	CheckoutCancelURL   string // 決済キャンセル後の戻り先

	KafkaBrokers       []string // Kafkaブローカー
	NotificationsTopic string   // 通知タスクのトピック

	RedisAddr     string // Webhook重複排除用Redis
	RedisPassword string

	TelegramToken  string // 管理者通知（空なら無効）
	TelegramChatID string

	SMTPHost     string // メール送信（空なら無効）
	SMTPPort     string
	SMTPFrom     string
	SMTPUser     string
	SMTPPassword string
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: getenv("GO_ENV", "dev"),
		FEURL: getenv("FE_URL", "http://localhost:3000"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		KafkaBrokers:       strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ","),
		NotificationsTopic: getenv("NOTIFICATIONS_TOPIC", "store.notifications"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		TelegramToken:  os.Getenv("TG_TOKEN"),
		TelegramChatID: os.Getenv("TG_CHAT_ID"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}

	cfg.CheckoutSuccessURL = getenv("CHECKOUT_SUCCESS_URL", cfg.FEURL+"/checkout/success")
	cfg.CheckoutCancelURL = getenv("CHECKOUT_CANCEL_URL", cfg.FEURL+"/checkout/cancel")

	//DATABASE_URLがあれば最優先、無ければPOSTGRES_*から組み立てる
	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getenv("POSTGRES_HOST", "localhost"),
			getenv("POSTGRES_PORT", "5432"),
			getenv("POSTGRES_USER", "postgres"),
			getenv("POSTGRES_PASSWORD", "postgres"),
			getenv("POSTGRES_DB", "instshop"),
			getenv("POSTGRES_SSLMODE", "disable"),
		)
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripeWebhookSecret == "" {
		return Config{}, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
