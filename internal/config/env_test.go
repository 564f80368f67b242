package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestFromViperDefaultsAndOverrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_ADDR", ":9090")
	v.Set("JWT_TTL", "30m")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("DB_USER", "app")
	v.Set("DB_PASSWORD", "pw")
	v.Set("DB_HOST", "db:3306")
	v.Set("DB_NAME", "buscas")

	env := fromViper(v)
	if env.AppAddr != ":9090" {
		t.Fatalf("addr = %q", env.AppAddr)
	}
	if env.JWTTTL != 30*time.Minute {
		t.Fatalf("ttl = %v", env.JWTTTL)
	}
	if len(env.CORSAllowedOrigins) != 2 || env.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", env.CORSAllowedOrigins)
	}
	want := "app:pw@tcp(db:3306)/buscas?parseTime=false&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	if env.DSN() != want {
		t.Fatalf("dsn = %q", env.DSN())
	}
}

func TestFromViperFallbacks(t *testing.T) {
	env := fromViper(viper.New())
	if env.JWTTTL != 12*time.Hour {
		t.Fatalf("ttl = %v", env.JWTTTL)
	}
	if len(env.CORSAllowedOrigins) != len(defaultOrigins) {
		t.Fatalf("origins = %v", env.CORSAllowedOrigins)
	}
	env.DBDSN = "custom"
	if env.DSN() != "custom" {
		t.Fatalf("explicit DSN ignored")
	}
}
