package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"quest-fees/app/database"
	"quest-fees/app/storage"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
)

type Config struct {
	Port           string
	Timezone       string
	StoreDriver    string
	RequestTimeout time.Duration
	RefreshEvery   time.Duration

	School   SchoolConfig
	Postgres PostgresConfig
	Sheets   SheetsConfig
	Redis    RedisConfig
}

// SchoolConfig is printed on every page and receipt
type SchoolConfig struct {
	Name    string
	Address string
	LogoURL string
}

type PostgresConfig struct {
	URL     string
	LocalDB bool
}

type SheetsConfig struct {
	CredentialsJSON string
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

var AppConfig *Config

// Load reads .env (if present) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	} else {
		log.Println(".env file loaded")
	}

	cfg := &Config{
		Port:           GetEnv("PORT", "8080"),
		Timezone:       GetEnv("APP_TIMEZONE", "Asia/Kolkata"),
		StoreDriver:    GetEnv("STORE_DRIVER", "sheets"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		RefreshEvery:   getDuration("REFRESH_INTERVAL", 0),
		School: SchoolConfig{
			Name:    GetEnv("SCHOOL_NAME", "Quest International School"),
			Address: GetEnv("SCHOOL_ADDRESS", "Om Nagar, Maruthi Nagar, Langar Houz, Hyderabad, Telangana 500008"),
			LogoURL: GetEnv("SCHOOL_LOGO_URL", "https://example.com/logo.png"),
		},
		Postgres: PostgresConfig{
			URL:     GetEnv("DATABASE_URL"),
			LocalDB: GetEnv("LOCAL_DB") == "true",
		},
		Sheets: SheetsConfig{
			CredentialsJSON: GetEnv("GOOGLE_CREDENTIALS"),
			CredentialsFile: GetEnv("GOOGLE_CREDENTIALS_FILE"),
			SpreadsheetID:   GetEnv("SPREADSHEET_ID"),
			SheetName:       GetEnv("SHEET_NAME", "Sheet1"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			Password: GetEnv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			Key:      GetEnv("REDIS_KEY", storage.DefaultRedisKey),
		},
	}

	AppConfig = cfg
	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

// DSN returns the Postgres connection string
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	if p.LocalDB {
		return "host=localhost port=5432 user=postgres dbname=quest_fees sslmode=disable"
	}
	return ""
}

// OpenDB opens and pings the Postgres database
func OpenDB(cfg PostgresConfig) (*sql.DB, error) {
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("set DATABASE_URL or LOCAL_DB=true to use the postgres store")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

// NewStore opens the storage backend selected by StoreDriver
func NewStore(ctx context.Context, cfg *Config) (storage.Sheet, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case "memory":
		log.Println("Using in-memory fee sheet (data is lost on restart)")
		return storage.NewMemory(), noop, nil

	case "postgres":
		db, err := OpenDB(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("Using PostgreSQL fee sheet")
		return database.NewFeeSheet(db), db.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Printf("Using Redis fee sheet at %s (key %s)", cfg.Redis.Addr, cfg.Redis.Key)
		return storage.NewRedis(client, cfg.Redis.Key), client.Close, nil

	case "sheets":
		var opts []option.ClientOption
		switch {
		case cfg.Sheets.CredentialsJSON != "":
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Sheets.CredentialsJSON)))
		case cfg.Sheets.CredentialsFile != "":
			opts = append(opts, option.WithCredentialsFile(cfg.Sheets.CredentialsFile))
		default:
			return nil, nil, fmt.Errorf("set GOOGLE_CREDENTIALS or GOOGLE_CREDENTIALS_FILE to use the sheets store")
		}
		sheet, err := storage.NewGoogleSheet(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, opts...)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using Google Sheet %s (%s)", cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
		return sheet, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q (want sheets, postgres, redis or memory)", cfg.StoreDriver)
}

// InitStore opens the configured store or exits
func InitStore(ctx context.Context, cfg *Config) (storage.Sheet, func() error) {
	store, closeFn, err := NewStore(ctx, cfg)
	if err != nil {
		log.Fatal("Cannot open fee sheet: ", err)
	}
	return store, closeFn
}

// Location returns the configured time zone, falling back to IST
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: Failed to load %s location, falling back to UTC+5:30: %v", c.Timezone, err)
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}
