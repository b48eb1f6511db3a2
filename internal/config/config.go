package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	SiteCollection               string
	PersonaCollection            string
	VisitCollection              string
	EvaluationCollection         string
	ParticipantCollection        string
	WishlistVoteCollection       string
	FailedNotificationCollection string
	PingCollection               string
	Timeout                      time.Duration
	Timezone                     string
	ServerLog                    *log.Logger
	JWTConfigs                   []JWTConfig
	JWTAudience                  string
	DemoLoginUser                string
	DemoLoginPassword            string
	DemoLoginTokenTTL            time.Duration
	WebhookEndpoint              string
	WebhookTimeout               time.Duration
	AllowedOrigins               []string
	WishlistCookieSecret         []byte
	WishlistCookieSecure         bool
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	webhookEndpoint := strings.TrimSpace(os.Getenv("RESEARCH_WEBHOOK_ENDPOINT"))

	webhookTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("RESEARCH_WEBHOOK_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			webhookTimeout = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	wishlistSecret := strings.TrimSpace(os.Getenv("WISHLIST_VOTER_SECRET"))
	if wishlistSecret == "" {
		log.Fatal("WISHLIST_VOTER_SECRET must be configured")
	}
	wishlistCookieSecure := strings.EqualFold(strings.TrimSpace(os.Getenv("WISHLIST_COOKIE_SECURE")), "true")

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "culturatlas-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_GATEWAY_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_GATEWAY_JWT_ISSUER", "auth-gateway"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_JWT_SECRET or AUTH_GATEWAY_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	demoLoginTTL := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("DEMO_LOGIN_TOKEN_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			demoLoginTTL = parsed
		}
	}

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "culturatlas"),
		SiteCollection:               envOrDefault("SITE_COLLECTION", "sites"),
		PersonaCollection:            envOrDefault("PERSONA_COLLECTION", "user_personas"),
		VisitCollection:              envOrDefault("VISIT_COLLECTION", "visits"),
		EvaluationCollection:         envOrDefault("EVALUATION_COLLECTION", "evaluations"),
		ParticipantCollection:        envOrDefault("PARTICIPANT_COLLECTION", "study_participants"),
		WishlistVoteCollection:       envOrDefault("WISHLIST_VOTE_COLLECTION", "wishlist_votes"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		PingCollection:               envOrDefault("PING_COLLECTION", "pings"),
		Timeout:                      timeout,
		Timezone:                     envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:                    log.New(os.Stdout, "[culturatlas-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:                   jwtConfigs,
		JWTAudience:                  jwtAudience,
		DemoLoginUser:                strings.TrimSpace(os.Getenv("DEMO_LOGIN_USER")),
		DemoLoginPassword:            os.Getenv("DEMO_LOGIN_PASSWORD"),
		DemoLoginTokenTTL:            demoLoginTTL,
		WebhookEndpoint:              webhookEndpoint,
		WebhookTimeout:               webhookTimeout,
		AllowedOrigins:               allowedOrigins,
		WishlistCookieSecret:         []byte(wishlistSecret),
		WishlistCookieSecure:         wishlistCookieSecure,
	}

	cfg.ServerLog.Printf("loaded config: webhookEndpoint=%q timezone=%q", webhookEndpoint, cfg.Timezone)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
