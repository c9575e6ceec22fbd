package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/openlistings/backend/internal/utils"
)

// Config holds all application configuration, including secrets and flags.
type Config struct {
	AppName    string
	AppPort    string
	AppUrl     string
	DBUrl      string
	RedisAddr  string
	RedisPass  string
	UploadDir  string
	UploadBase string

	TokenExpiry            time.Duration
	RefreshTokenExpiry     time.Duration
	MaxLoginAttempts       int
	LockDuration           time.Duration
	VerificationCodeExpiry time.Duration

	RSAPrivateKey *rsa.PrivateKey
	RSAPublicKey  *rsa.PublicKey

	TwilioAccountSID string
	TwilioAuthToken  string
	SendGridAPIKey   string

	SeedAdminEmail    string
	SeedAdminPassword string
	SeedDemoData      bool

	// Static flags fetched once from LaunchDarkly when LD_SDK_KEY is set.
	LDFlag_SendgridFromEmail         string
	LDFlag_TwilioFromPhone           string
	LDFlag_ValidatePhoneWithTwilio   bool
	LDFlag_ValidateEmailWithSendGrid bool
	LDFlag_SendgridSandboxMode       bool
	LDFlag_CORSHighSecurity          bool
}

const (
	DefaultTokenExpiry            = 10 * time.Minute
	DefaultRefreshTokenExpiry     = 7 * 24 * time.Hour
	DefaultVerificationCodeExpiry = time.Duration(utils.VerificationCodeTTLMinutes) * time.Minute
	DefaultLockDuration           = time.Duration(utils.LockoutMinutes) * time.Minute
	LDConnectionTimeout           = 5 * time.Second
)

// LoadConfig reads the environment (optionally seeded from a .env file),
// parses the RSA keypair, and snapshots LaunchDarkly flags.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file found; relying on process environment")
	}

	cfg := &Config{
		AppName:                envOr("APP_NAME", "openlistings-backend"),
		AppPort:                mustEnv("APP_PORT"),
		AppUrl:                 mustEnv("APP_URL"),
		DBUrl:                  mustEnv("DB_URL"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		UploadDir:              envOr("UPLOAD_DIR", "./uploads"),
		TokenExpiry:            durationOr("TOKEN_EXPIRY", DefaultTokenExpiry),
		RefreshTokenExpiry:     durationOr("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiry),
		MaxLoginAttempts:       intOr("MAX_LOGIN_ATTEMPTS", utils.MaxFailedLoginAttempts),
		LockDuration:           durationOr("LOCK_DURATION", DefaultLockDuration),
		VerificationCodeExpiry: durationOr("VERIFICATION_CODE_EXPIRY", DefaultVerificationCodeExpiry),
		TwilioAccountSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:        os.Getenv("TWILIO_AUTH_TOKEN"),
		SendGridAPIKey:         os.Getenv("SENDGRID_API_KEY"),
		SeedAdminEmail:         os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword:      os.Getenv("SEED_ADMIN_PASSWORD"),
		SeedDemoData:           os.Getenv("SEED_DEMO_DATA") == "true",
	}
	cfg.UploadBase = envOr("UPLOAD_BASE_URL", cfg.AppUrl+"/uploads")

	cfg.RSAPrivateKey = parsePrivateKey(mustEnv("RSA_PRIVATE_KEY_BASE64"))
	cfg.RSAPublicKey = parsePublicKey(mustEnv("RSA_PUBLIC_KEY_BASE64"))

	loadLDFlags(cfg)

	return cfg
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("%s must be an integer", key)
	}
	return n
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("%s must be a duration like 10m or 168h", key)
	}
	return d
}

func parsePrivateKey(b64 string) *rsa.PrivateKey {
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 private key")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}
	return key
}

func parsePublicKey(b64 string) *rsa.PublicKey {
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 public key")
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	return key
}

// loadLDFlags snapshots delivery flags once at startup. Without an SDK key
// the defaults keep outbound email/SMS delivery disabled.
func loadLDFlags(cfg *Config) {
	sdkKey := os.Getenv("LD_SDK_KEY")
	if sdkKey == "" {
		utils.Logger.Info("LD_SDK_KEY not set; using default delivery flags")
		return
	}

	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize LaunchDarkly client")
	}
	defer ldClient.Close()

	ldCtx := ldcontext.NewBuilder(cfg.AppName).Kind("service").Build()

	cfg.LDFlag_SendgridFromEmail = evalString(ldClient, ldCtx, "sendgrid-from-email", "")
	cfg.LDFlag_TwilioFromPhone = evalString(ldClient, ldCtx, "twilio-from-phone", "")
	cfg.LDFlag_ValidatePhoneWithTwilio = evalBool(ldClient, ldCtx, "validate-phone-with-twilio", false)
	cfg.LDFlag_ValidateEmailWithSendGrid = evalBool(ldClient, ldCtx, "validate-email-with-sendgrid", false)
	cfg.LDFlag_SendgridSandboxMode = evalBool(ldClient, ldCtx, "sendgrid-sandbox-mode", true)
	cfg.LDFlag_CORSHighSecurity = evalBool(ldClient, ldCtx, "cors-high-security", false)
}

func evalString(client *ld.LDClient, ctx ldcontext.Context, flag, fallback string) string {
	v, err := client.StringVariation(flag, ctx, fallback)
	if err != nil {
		utils.Logger.WithError(err).Warnf("LaunchDarkly flag %q fell back to default", flag)
	}
	return v
}

func evalBool(client *ld.LDClient, ctx ldcontext.Context, flag string, fallback bool) bool {
	v, err := client.BoolVariation(flag, ctx, fallback)
	if err != nil {
		utils.Logger.WithError(err).Warnf("LaunchDarkly flag %q fell back to default", flag)
	}
	return v
}
