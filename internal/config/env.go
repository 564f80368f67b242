package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN      string
	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string

	JWTSecret       string
	JWTTTL          time.Duration
	SuperAdminEmail string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_HOST", "127.0.0.1:3306")
	v.SetDefault("DB_NAME", "buscas")
	v.SetDefault("JWT_TTL", "12h")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MINIO_BUCKET", "resultados")
	v.SetDefault("REDIS_DB", 0)

	return fromViper(v)
}

func fromViper(v *viper.Viper) Env {
	ttl := v.GetDuration("JWT_TTL")
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	origins := defaultOrigins
	if raw := strings.TrimSpace(v.GetString("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins = nil
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Env{
		AppAddr: strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode: strings.TrimSpace(v.GetString("GIN_MODE")),

		DBDSN:      strings.TrimSpace(v.GetString("DB_DSN")),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBHost:     v.GetString("DB_HOST"),
		DBName:     v.GetString("DB_NAME"),

		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          ttl,
		SuperAdminEmail: strings.TrimSpace(v.GetString("SUPER_ADMIN_EMAIL")),

		SMTPHost:     strings.TrimSpace(v.GetString("SMTP_HOST")),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUser:     v.GetString("SMTP_USER"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		SMTPFrom:     v.GetString("SMTP_FROM"),

		MinioEndpoint:  strings.TrimSpace(v.GetString("MINIO_ENDPOINT")),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		MinioPublicURL: v.GetString("MINIO_PUBLIC_URL"),

		RedisAddr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		CORSAllowedOrigins: origins,
	}
}

// DSN returns DB_DSN, or builds one from the DB_* parts.
func (e Env) DSN() string {
	if e.DBDSN != "" {
		return e.DBDSN
	}
	return e.DBUser + ":" + e.DBPassword + "@tcp(" + e.DBHost + ")/" + e.DBName +
		"?parseTime=false&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
}
