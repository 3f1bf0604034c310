package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	AppName       string `json:"appname"`
	AppEnv        string `json:"appenv"`
	AppPort       uint16 `json:"appport"`
	GinMode       string `json:"ginmode"`
	DBHost        string `json:"dbhost"`
	DBPort        uint16 `json:"dbport"`
	DBName        string `json:"dbname"`
	DBUser        string `json:"dbuser"`
	DBPass        string `json:"dbpass"`
	RedisAddr     string `json:"redisaddr"`
	RedisPass     string `json:"redispass"`
	RedisDB       int    `json:"redisdb"`
	RetentionDays int    `json:"retentiondays"`
	GeoIPDBPath   string `json:"geoipdbpath"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// Load environment variables from a .env file when present; plain env vars work too.
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		retentionDays := 30
		if v := os.Getenv("LOGRETENTIONDAYS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retentionDays = n
			}
		}

		redisAddr := os.Getenv("REDISADDR")
		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}
		redisDB, _ := strconv.Atoi(os.Getenv("REDISDB"))

		// Initialize the Config struct with values from environment variables.
		config = &Config{
			AppName:       os.Getenv("APPNAME"),
			AppEnv:        os.Getenv("APPENV"),
			AppPort:       uint16(appPort),
			GinMode:       os.Getenv("GINMODE"),
			DBHost:        os.Getenv("DBHOST"),
			DBPort:        uint16(dbPort),
			DBName:        os.Getenv("DBNAME"),
			DBUser:        os.Getenv("DBUSER"),
			DBPass:        os.Getenv("DBPASS"),
			RedisAddr:     redisAddr,
			RedisPass:     os.Getenv("REDISPASS"),
			RedisDB:       redisDB,
			RetentionDays: retentionDays,
			GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		}
	})
	return config
}
