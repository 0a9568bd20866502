package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig paramètres de connexion PostgreSQL
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN construit la connection string lib/pq (format clé=valeur, valeurs entre quotes)
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quoteDSN(c.Host), c.Port, quoteDSN(c.User), quoteDSN(c.Password), quoteDSN(c.Name), quoteDSN(c.SSLMode))
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quoteDSN protège espaces, quotes et backslashes d'une valeur
func quoteDSN(value string) string {
	return "'" + dsnEscaper.Replace(value) + "'"
}

// ServerConfig paramètres de l'API HTTP
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Addr retourne l'adresse d'écoute
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LogConfig paramètres du logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ETLConfig paramètres du chargement
type ETLConfig struct {
	Input string `yaml:"input"`
}

// Config configuration complète de l'application
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	ETL      ETLConfig      `yaml:"etl"`
}

// Default retourne les valeurs de développement local
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Name:     "online_retail",
			SSLMode:  "disable",
		},
		Server: ServerConfig{Port: 5000},
		Log:    LogConfig{Level: "info", Format: "text"},
		ETL:    ETLConfig{Input: "online_retail.csv"},
	}
}

// Load construit la configuration: défauts, puis fichier YAML optionnel, puis .env, puis environnement.
// Un chemin vide ignore le fichier YAML; un .env absent n'est pas une erreur.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Database.Host = getEnv("PGHOST", cfg.Database.Host)
	cfg.Database.User = getEnv("PGUSER", cfg.Database.User)
	cfg.Database.Password = getEnv("PGPASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("PGDATABASE", cfg.Database.Name)
	cfg.Database.SSLMode = getEnv("PGSSLMODE", cfg.Database.SSLMode)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.ETL.Input = getEnv("ETL_INPUT", cfg.ETL.Input)

	var err error
	if cfg.Database.Port, err = getEnvInt("PGPORT", cfg.Database.Port); err != nil {
		return err
	}
	if cfg.Server.Port, err = getEnvInt("PORT", cfg.Server.Port); err != nil {
		return err
	}
	return nil
}

// getEnv récupère une variable d'environnement avec fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, value, err)
	}
	return n, nil
}
