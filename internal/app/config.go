package app

import (
	"strings"
	"time"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/utils"
)

type Config struct {
	ServiceName    string
	HTTPAddr       string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AllowOrigins   []string
	RedisAddr      string
	RedisPassword  string
	ReminderSpec   string
	ReminderDays   int
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	var allowOrigins []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowOrigins = append(allowOrigins, o)
		}
	}

	return Config{
		ServiceName:    utils.GetEnv("SERVICE_NAME", "edusphere-backend", log),
		HTTPAddr:       utils.GetEnv("HTTP_ADDR", ":8080", log),
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		AllowOrigins:   allowOrigins,
		RedisAddr:      utils.GetEnv("REDIS_ADDR", "", log),
		RedisPassword:  utils.GetEnv("REDIS_PASSWORD", "", log),
		// Default: every day at 09:00, remind about deadlines 2 days out.
		ReminderSpec: utils.GetEnv("REMINDER_CRON", "0 9 * * *", log),
		ReminderDays: utils.GetEnvAsInt("REMINDER_DAYS_AHEAD", 2, log),
	}
}
