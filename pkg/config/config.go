package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Inventory InventoryConfig
}

type AppConfig struct {
	Env      string // development activa la salida de consola del logger
	Name     string
	LogLevel string
}

// DBConfig almacenamiento. Con Driver memory el resto de campos se ignora.
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string // si está, gana sobre los campos sueltos
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	Migrate     bool // aplicar schema.sql al arrancar
}

func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN URL postgres:// con usuario y clave escapados.
func (c DBConfig) DSN() string {
	q := url.Values{"sslmode": {c.SSLMode}}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// RedisConfig caché compartida de reservas. URL vacía = caché en proceso.
type RedisConfig struct {
	URL    string
	Prefix string
}

// JWTConfig Secret vacío = API sin autenticación.
type JWTConfig struct {
	Secret string
	Issuer string
}

type HTTPConfig struct {
	Host string
	Port int
}

func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// InventoryConfig parámetros del motor de inventario.
type InventoryConfig struct {
	CodePadWidth        int           // dígitos del consecutivo: RM001 con 3
	ReservationCacheTTL time.Duration // vigencia de la foto de reservas
}

var defaults = map[string]any{
	"APP_ENV":                       "development",
	"APP_NAME":                      "fabrica-api",
	"LOG_LEVEL":                     "info",
	"STORAGE_DRIVER":                StoragePostgres,
	"DATABASE_URL":                  "",
	"DB_HOST":                       "localhost",
	"DB_PORT":                       5432,
	"DB_USER":                       "postgres",
	"DB_PASSWORD":                   "",
	"DB_NAME":                       "fabrica",
	"DB_SSLMODE":                    "disable",
	"DB_MAX_CONNS":                  25,
	"DB_MIGRATE":                    true,
	"REDIS_URL":                     "",
	"REDIS_PREFIX":                  "fabrica",
	"JWT_SECRET":                    "",
	"JWT_ISSUER":                    "fabrica-api",
	"HTTP_HOST":                     "0.0.0.0",
	"HTTP_PORT":                     8080,
	"CODE_PAD_WIDTH":                3,
	"RESERVATION_CACHE_TTL_SECONDS": 30,
}

// Load arma la configuración: defaults, luego .env del directorio de trabajo, luego el entorno.
func Load() (*Config, error) {
	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("leer .env: %w", err)
	}
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			Migrate:     v.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{URL: v.GetString("REDIS_URL"), Prefix: v.GetString("REDIS_PREFIX")},
		JWT:   JWTConfig{Secret: v.GetString("JWT_SECRET"), Issuer: v.GetString("JWT_ISSUER")},
		HTTP:  HTTPConfig{Host: v.GetString("HTTP_HOST"), Port: v.GetInt("HTTP_PORT")},
		Inventory: InventoryConfig{
			CodePadWidth:        v.GetInt("CODE_PAD_WIDTH"),
			ReservationCacheTTL: time.Duration(v.GetInt("RESERVATION_CACHE_TTL_SECONDS")) * time.Second,
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER inválido: %q (postgres|memory)", c.DB.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT inválido: %d", c.HTTP.Port)
	}
	if c.Inventory.CodePadWidth < 1 || c.Inventory.CodePadWidth > 12 {
		return fmt.Errorf("CODE_PAD_WIDTH fuera de rango: %d", c.Inventory.CodePadWidth)
	}
	if c.Inventory.ReservationCacheTTL < 0 {
		return fmt.Errorf("RESERVATION_CACHE_TTL_SECONDS no puede ser negativo")
	}
	return nil
}
