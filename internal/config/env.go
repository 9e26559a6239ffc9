package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// devJWTSecret only exists so a local checkout runs without setup.
const devJWTSecret = "super-secret-key-change-me"

// minReleaseSecretLen matches the HS256 key size.
const minReleaseSecretLen = 32

// DefaultTaxRate is applied to every price quote unless TAX_RATE overrides it.
const DefaultTaxRate = 0.16

type Env struct {
	AppAddr string
	GinMode string

	DB DBConfig

	JWTSecret string
	JWTTTL    time.Duration

	TaxRate     float64
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	return Env{
		AppAddr: appAddr,
		GinMode: ginMode,
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "127.0.0.1"),
			Port:     getEnvAsIntOrDefault("DB_PORT", 3306),
			User:     getEnvOrDefault("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnvOrDefault("DB_NAME", "sixpoint"),
		},
		JWTSecret:   getEnvOrDefault("JWT_SECRET", devJWTSecret),
		JWTTTL:      time.Duration(getEnvAsIntOrDefault("JWT_TTL_HOURS", 24)) * time.Hour,
		TaxRate:     getEnvAsFloatOrDefault("TAX_RATE", DefaultTaxRate),
		CORSOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

// Validate rejects settings that must never reach production. Outside release
// mode the development secret is allowed with a warning.
func (e Env) Validate() error {
	weak := e.JWTSecret == "" || e.JWTSecret == devJWTSecret
	if e.GinMode != "release" {
		if weak {
			log.Printf("[CONFIG] JWT_SECRET is the development default, set it before deploying")
		}
		return nil
	}
	if weak {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	if len(e.JWTSecret) < minReleaseSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes in release mode", minReleaseSecretLen)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	log.Printf("[CONFIG] %s is not set, using default value", key)
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("[CONFIG] %s=%q is not an integer, using default value", key, value)
	}
	return defaultValue
}

// getEnvAsFloatOrDefault rejects negative values; a rate of zero is kept as-is.
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
		log.Printf("[CONFIG] %s=%q is not a valid rate, using default value", key, value)
	}
	return defaultValue
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
