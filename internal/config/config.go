package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Company  CompanyConfig  `mapstructure:"company"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SnapshotSlot    string        `mapstructure:"snapshot_slot"`
}

// CompanyConfig is the issuer profile a new draft is pre-filled with
type CompanyConfig struct {
	Brand    string `mapstructure:"brand"`
	Addr1    string `mapstructure:"addr1"`
	Addr2    string `mapstructure:"addr2"`
	Phone    string `mapstructure:"phone"`
	Email    string `mapstructure:"email"`
	TaxRegNo string `mapstructure:"tax_reg_no"`
	LogoPath string `mapstructure:"logo_path"`
}

// ExportConfig holds document export configuration
type ExportConfig struct {
	OutputDir        string `mapstructure:"output_dir"`
	BackgroundFormat string `mapstructure:"background_format"`
	QueueSize        int    `mapstructure:"queue_size"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A .env file
// next to the binary is loaded first so local overrides work without
// exporting variables.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := gotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	// Config file is optional; defaults describe a runnable service
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/invoicegen.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.snapshot_slot", "invoiceData")

	// Company defaults mirror the profile the original form shipped with
	viper.SetDefault("company.brand", "Srour Solar Power")
	viper.SetDefault("company.addr1", "Bazourieh")
	viper.SetDefault("company.addr2", "Main street")
	viper.SetDefault("company.phone", "+961 78 863 012")
	viper.SetDefault("company.email", "sroursolarpower@gmail.com")
	viper.SetDefault("company.tax_reg_no", "5001963")
	viper.SetDefault("company.logo_path", "/logo.png")

	// Export defaults
	viper.SetDefault("export.output_dir", "generated_invoices")
	viper.SetDefault("export.background_format", "pdf")
	viper.SetDefault("export.queue_size", 8)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("company.brand", "COMPANY_BRAND")
	viper.BindEnv("company.email", "COMPANY_EMAIL")
	viper.BindEnv("company.tax_reg_no", "COMPANY_TAX_REG_NO")
	viper.BindEnv("export.output_dir", "EXPORT_OUTPUT_DIR")
	viper.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535]: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}
	switch c.Export.BackgroundFormat {
	case "pdf", "xlsx":
	default:
		return fmt.Errorf("export.background_format must be pdf or xlsx: %s", c.Export.BackgroundFormat)
	}
	return nil
}
