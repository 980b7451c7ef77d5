package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	DB          DBConfig
	Auth        AuthConfig
	Certificate CertificateConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // sqlite file, ignored for postgres
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  int // hours
}

type CertificateConfig struct {
	Office      string
	City        string
	SignerName  string
	SignerTitle string
	HeaderImage string
	FooterImage string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("AUTH_TOKEN_TTL_HOURS", "24"))

	return Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "gth"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "sistema_gth"),
			Path:     getEnv("DB_SQLITE_PATH", "sistema_gth.db"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  tokenTTL,
		},
		Certificate: CertificateConfig{
			Office:      getEnv("CERT_OFFICE", "Oficina de Gestión de Talento Humano"),
			City:        getEnv("CERT_CITY", "Lima"),
			SignerName:  getEnv("CERT_SIGNER_NAME", "MG. ARTURO J. GALINDO MARTINEZ"),
			SignerTitle: getEnv("CERT_SIGNER_TITLE", "JEFE DE GESTIÓN DE TALENTO HUMANO"),
			HeaderImage: getEnv("CERT_HEADER_IMAGE", "assets/membrete_superior.png"),
			FooterImage: getEnv("CERT_FOOTER_IMAGE", "assets/membrete_inferior.png"),
		},
	}
}

// DSN builds the postgres connection string. Sqlite mode uses Path directly.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
