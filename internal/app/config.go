package app

import (
	"strings"
	"time"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	FrontendBaseURL string
	AllowedOrigins  []string
	AppName         string
	SendgridAPIKey  string
	MailFromAddress string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	frontendBaseURL := utils.GetEnv("FRONTEND_BASE_URL", "http://localhost:3000", log)
	originsRaw := utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	appName := utils.GetEnv("APP_NAME", "Focus Up", log)
	sendgridAPIKey := utils.GetEnv("SENDGRID_API_KEY", "", nil)
	mailFromAddress := utils.GetEnv("MAIL_FROM_ADDRESS", "no-reply@focusup.app", log)

	origins := []string{}
	for _, o := range strings.Split(originsRaw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		FrontendBaseURL: frontendBaseURL,
		AllowedOrigins:  origins,
		AppName:         appName,
		SendgridAPIKey:  sendgridAPIKey,
		MailFromAddress: mailFromAddress,
	}
}
