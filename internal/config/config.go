package config

import (
	"strings"
	"time"
)

type Config struct {
	ServerPort         int      `json:"server_port"`
	AppEnv             string   `json:"app_env"`
	FrontendURL        string   `json:"frontend_url"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`
	DefaultRateLimit   int      `json:"default_rate_limit"`
	GlobalRateLimit    int      `json:"global_rate_limit"`

	Auth     AuthConfig     `json:"auth"`
	Stripe   StripeConfig   `json:"stripe"`
	Capacity CapacityConfig `json:"capacity"`
	Retry    RetryConfig    `json:"retry"`
	Events   EventsConfig   `json:"events"`
}

// AuthConfig points at the managed auth service that issues user tokens.
type AuthConfig struct {
	SupabaseURL        string `json:"supabase_url"`
	SupabaseAnonKey    string `json:"-"`
	JWTSecretKey       string `json:"-"`
	JWTExpirationHours int    `json:"jwt_expiration_hours"`
}

// RemoteVerification reports whether tokens are checked against the auth
// service instead of the shared signing secret.
func (c AuthConfig) RemoteVerification() bool {
	return c.JWTSecretKey == "" && c.SupabaseURL != ""
}

type StripeConfig struct {
	SecretKey            string      `json:"-"`
	WebhookSecret        string      `json:"-"`
	Currency             string      `json:"currency"`
	Prices               PriceConfig `json:"prices"`
	VIPCouponID          string      `json:"vip_coupon_id"`
	VIPDiscountAmount    int64       `json:"vip_discount_amount"`
	ReferralUnitDiscount int64       `json:"referral_unit_discount"`
}

// PriceConfig holds the Stripe price id of each paid tier.
type PriceConfig struct {
	Lite     string `json:"lite"`
	Standard string `json:"standard"`
	Pro      string `json:"pro"`
}

type CapacityConfig struct {
	EarlyBirdTotal int           `json:"early_bird_total"`
	CacheTTL       time.Duration `json:"cache_ttl"`
}

// RetryConfig bounds the store lookup that tolerates signup lag.
type RetryConfig struct {
	StoreLookupAttempts int           `json:"store_lookup_attempts"`
	StoreLookupDelay    time.Duration `json:"store_lookup_delay"`
}

type EventsConfig struct {
	RetentionDays   int    `json:"retention_days"`
	ArchiveSchedule string `json:"archive_schedule"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	return &Config{
		ServerPort:         getEnvIntWithDefault("SERVER_PORT", 10000),
		AppEnv:             getEnvWithDefault("APP_ENV", "development"),
		FrontendURL:        strings.TrimRight(getEnvWithDefault("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins: splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		DefaultRateLimit:   getEnvIntWithDefault("DEFAULT_RATE_LIMIT", 300),   // per user per minute
		GlobalRateLimit:    getEnvIntWithDefault("GLOBAL_RATE_LIMIT", 10000), // per IP per minute
		Auth: AuthConfig{
			SupabaseURL:        strings.TrimRight(getEnvWithDefault("SUPABASE_URL", ""), "/"),
			SupabaseAnonKey:    getEnvWithDefault("SUPABASE_ANON_KEY", ""),
			JWTSecretKey:       getEnvWithDefault("SUPABASE_JWT_SECRET", ""),
			JWTExpirationHours: getEnvIntWithDefault("JWT_EXPIRATION_HOURS", 24),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnvWithDefault("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnvWithDefault("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      strings.ToLower(getEnvWithDefault("STRIPE_CURRENCY", "jpy")),
			Prices: PriceConfig{
				Lite:     getEnvWithDefault("STRIPE_PRICE_LITE", ""),
				Standard: getEnvWithDefault("STRIPE_PRICE_STANDARD", ""),
				Pro:      getEnvWithDefault("STRIPE_PRICE_PRO", ""),
			},
			VIPCouponID:          getEnvWithDefault("VIP_COUPON_ID", "vip_early_bird"),
			VIPDiscountAmount:    int64(getEnvIntWithDefault("VIP_DISCOUNT_AMOUNT", 500)),
			ReferralUnitDiscount: int64(getEnvIntWithDefault("REFERRAL_UNIT_DISCOUNT", 500)),
		},
		Capacity: CapacityConfig{
			EarlyBirdTotal: getEnvIntWithDefault("EARLY_BIRD_CAPACITY", 100),
			CacheTTL:       getEnvDurationWithDefault("CAPACITY_CACHE_TTL", 60*time.Second),
		},
		Retry: RetryConfig{
			StoreLookupAttempts: getEnvIntWithDefault("STORE_LOOKUP_ATTEMPTS", 3),
			StoreLookupDelay:    getEnvDurationWithDefault("STORE_LOOKUP_DELAY", 500*time.Millisecond),
		},
		Events: EventsConfig{
			RetentionDays:   getEnvIntWithDefault("BILLING_EVENT_RETENTION_DAYS", 365),
			ArchiveSchedule: getEnvWithDefault("ARCHIVE_SCHEDULE", "0 3 * * *"),
		},
	}, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
