package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Email    EmailConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// EmailConfig holds transactional email configuration. Provider selects the
// adapter: "resend" or "smtp".
type EmailConfig struct {
	Provider  string
	FromEmail string
	FromName  string
	Resend    ResendConfig
	SMTP      SMTPConfig
}

// ResendConfig holds Resend API configuration
type ResendConfig struct {
	APIKey string
}

// SMTPConfig holds SMTP gateway configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "studio-dashboard")
	viper.SetDefault("JWT.ExpiresIn", 30*24*60*60) // 30 days
	viper.SetDefault("Email.Provider", "resend")
	viper.SetDefault("Email.FromEmail", "info@restlos-studio.de")
	viper.SetDefault("Email.FromName", "Arslan Studio")
	viper.SetDefault("Email.SMTP.Port", 587)
	viper.SetDefault("LogLevel", "info")
}
