package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nithub/nit-backend/models"
)

// DB é a conexão global, no estilo do restante do projeto.
var DB *gorm.DB

// Redis é o cache compartilhado; nil quando CACHE_HOST não está setado.
var Redis *redis.Client

// App guarda a configuração carregada do ambiente.
type App struct {
	Port           string
	Env            string
	DatabaseSchema string

	KeycloakServerURL    string
	KeycloakRealm        string
	KeycloakClientID     string
	KeycloakClientSecret string
	EnableDebugAuth      bool

	KongAdminURL    string
	KongGatewayURL  string
	KongUpstreamURL string
	KongConsumers   []string

	UseObjectStorage bool
	SupabaseURL      string
	SupabaseKey      string
	SupabaseBucket   string
	MediaRoot        string

	CacheHost      string
	DefaultTimeout time.Duration
}

// Load lê a configuração das variáveis de ambiente.
func Load() *App {
	return &App{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "production"),
		DatabaseSchema: getEnv("DATABASE_SCHEMA", "public"),

		KeycloakServerURL:    getEnv("KEYCLOAK_SERVER_URL", ""),
		KeycloakRealm:        getEnv("KEYCLOAK_REALM", ""),
		KeycloakClientID:     getEnv("KEYCLOAK_CLIENT_ID", ""),
		KeycloakClientSecret: getEnv("KEYCLOAK_CLIENT_SECRET", ""),
		EnableDebugAuth:      getBoolEnv("ENABLE_DEBUG_AUTH", false),

		KongAdminURL:    getEnv("KONG_ADMIN_URL", ""),
		KongGatewayURL:  getEnv("KONG_GATEWAY_URL", ""),
		KongUpstreamURL: getEnv("KONG_UPSTREAM_URL", "http://localhost:8080"),
		KongConsumers:   splitEnv("KONG_CONSUMERS"),

		UseObjectStorage: getBoolEnv("USE_OBJECT_STORAGE", false),
		SupabaseURL:      getEnv("SUPABASE_URL", ""),
		SupabaseKey:      getEnv("SUPABASE_KEY", ""),
		SupabaseBucket:   getEnv("SUPABASE_BUCKET", "media"),
		MediaRoot:        getEnv("MEDIA_ROOT", "./media"),

		CacheHost:      getEnv("CACHE_HOST", ""),
		DefaultTimeout: getDurationEnv("DEFAULT_TIMEOUT", 5*time.Second),
	}
}

// NewLogger cria o logger zerolog do processo: JSON em produção,
// console colorido em desenvolvimento.
func NewLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Str("service", "nit-backend").
			Logger()
	}

	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", "nit-backend").
		Logger()
}

// InitDB conecta no PostgreSQL, configura o pool e roda o AutoMigrate.
// O schema vem de DATABASE_SCHEMA e entra no search_path da conexão.
func InitDB(app *App, log zerolog.Logger) error {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=America/Sao_Paulo search_path=%s,public",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "nitdb"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_SSLMODE", "disable"),
		app.DatabaseSchema,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("conexão com o banco falhou: %w", err)
	}

	DB = db

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql.DB indisponível: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Client{},
		&models.Address{},
		&models.EmailSettings{},
		&models.Document{},
		&models.Category{},
		&models.Tag{},
		&models.Article{},
		&models.AuditEntry{},
	); err != nil {
		return fmt.Errorf("autoMigrate falhou: %w", err)
	}

	log.Info().
		Str("schema", app.DatabaseSchema).
		Msg("PostgreSQL conectado e migrado")
	return nil
}

// InitRedis conecta no cache quando CACHE_HOST está configurado.
// Cache ausente não é erro: o sistema funciona sem ele.
func InitRedis(app *App, log zerolog.Logger) {
	if app.CacheHost == "" {
		log.Info().Msg("cache desabilitado (CACHE_HOST vazio)")
		return
	}

	opts, err := redis.ParseURL(app.CacheHost)
	if err != nil {
		opts = &redis.Options{Addr: app.CacheHost}
	}
	Redis = redis.NewClient(opts)
	log.Info().Str("addr", opts.Addr).Msg("cache Redis configurado")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
