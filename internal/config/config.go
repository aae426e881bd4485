package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/stock-ahora/api-mod-semanal/internal/utils"
)

const defaultMigrationsPath = "internal/db/migrations"

type Config struct {
	Addr           string
	Env            string
	LogLevel       string
	MigrationsPath string
	SecretID       string
	Region         string

	DB DBConfig
	MQ MQConfig
	S3 S3Config

	// error de godotenv, se reporta con el logger ya inicializado
	DotEnvErr error
}

// Load lee la configuración desde el entorno (y .env si existe).
func Load() (Config, error) {
	dotEnvErr := godotenv.Load()

	cfg := Config{
		Addr:           getEnv("ADDR", ":8082"),
		Env:            getEnv("APP_ENV", "prod"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
		SecretID:       getEnv("APP_SECRET_ID", ""),
		Region:         getEnv("AWS_REGION", "us-east-2"),
		DotEnvErr:      dotEnvErr,
	}

	dbPort, err := utils.ConverToint(getEnv("DB_PORT", "5432"))
	if err != nil {
		return Config{}, errors.Wrap(err, "DB_PORT")
	}
	cfg.DB = DBConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "mod_semanal"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	mqPort, err := utils.ConverToint(getEnv("MQ_PORT", "5671"))
	if err != nil {
		return Config{}, errors.Wrap(err, "MQ_PORT")
	}
	cfg.MQ = MQConfig{
		Host:     getEnv("MQ_HOST", ""),
		Port:     mqPort,
		User:     getEnv("MQ_USER", ""),
		Password: getEnv("MQ_PASSWORD", ""),
		VHost:    getEnv("MQ_VHOST", ""),
		TLS:      getEnv("MQ_TLS", "true") != "false",
	}

	cfg.S3 = S3Config{
		Region: cfg.Region,
		Bucket: getEnv("S3_BUCKET", ""),
	}
	return cfg, nil
}

// ApplySecret sobrescribe los valores de conexión con los del secreto.
// Los campos vacíos del secreto no pisan lo que vino del entorno.
func (c *Config) ApplySecret(s SecretApp) {
	db := s.ToDBConfig()
	if db.Host != "" {
		c.DB.Host = db.Host
	}
	if db.Port != 0 {
		c.DB.Port = db.Port
	}
	if db.User != "" {
		c.DB.User = db.User
	}
	if db.Password != "" {
		c.DB.Password = db.Password
	}
	if db.DBName != "" {
		c.DB.DBName = db.DBName
	}
	if db.SSLMode != "" {
		c.DB.SSLMode = db.SSLMode
	}

	mq := s.ToMQConfig()
	if mq.Host != "" {
		c.MQ.Host = mq.Host
	}
	if mq.Port != 0 {
		c.MQ.Port = mq.Port
	}
	if mq.User != "" {
		c.MQ.User = mq.User
	}
	if mq.Password != "" {
		c.MQ.Password = mq.Password
	}
	if mq.VHost != "" {
		c.MQ.VHost = mq.VHost
	}

	s3 := s.ToS3Config()
	if s3.Region != "" {
		c.S3.Region = s3.Region
	}
	if s3.Bucket != "" {
		c.S3.Bucket = s3.Bucket
	}
}

func (c Config) IsDev() bool { return c.Env == "dev" }

// sin DB_HOST el servicio corre con el repositorio en memoria
func (c Config) DBEnabled() bool { return c.DB.Host != "" }

func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) S3Enabled() bool { return c.S3.Bucket != "" }

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
