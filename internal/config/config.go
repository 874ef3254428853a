package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultQADomain    = "ecwid.qa"
	defaultResellerKey = "ecwid___key"
	defaultReseller    = "Tester"
	defaultAuthKey     = "letmein"
	defaultDevTools    = "http://127.0.0.1:9222"
	defaultDataDirName = ".sbx"
)

// Config carries everything the commands need to reach a sandbox.
// Base-URL overrides exist for tests and for sandboxes fronted by
// non-standard hostnames; when empty the URLs are derived from the
// sandbox name and QADomain.
type Config struct {
	QADomain        string `mapstructure:"qa_domain"`
	ResellerKey     string `mapstructure:"reseller_key"`
	ResellerName    string `mapstructure:"reseller_name"`
	SuperuserKey    string `mapstructure:"superuser_key"`
	DevToolsURL     string `mapstructure:"devtools_url"`
	DataDir         string `mapstructure:"data_dir"`
	HTTPTimeout     int    `mapstructure:"http_timeout_seconds"`
	RegisterBaseURL string `mapstructure:"register_base_url"`
	BillingBaseURL  string `mapstructure:"billing_base_url"`
}

// MustLoad reads configuration from the environment, honoring a .env
// file in the working directory. All keys are prefixed with SBX_.
func MustLoad() *Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	viper.SetEnvPrefix("SBX")
	viper.AutomaticEnv()

	viper.SetDefault("QA_DOMAIN", defaultQADomain)
	viper.SetDefault("RESELLER_KEY", defaultResellerKey)
	viper.SetDefault("RESELLER_NAME", defaultReseller)
	viper.SetDefault("SUPERUSER_KEY", defaultAuthKey)
	viper.SetDefault("DEVTOOLS_URL", defaultDevTools)
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 0)

	dataDir := viper.GetString("DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, defaultDataDirName)
	}

	return &Config{
		QADomain:        viper.GetString("QA_DOMAIN"),
		ResellerKey:     viper.GetString("RESELLER_KEY"),
		ResellerName:    viper.GetString("RESELLER_NAME"),
		SuperuserKey:    viper.GetString("SUPERUSER_KEY"),
		DevToolsURL:     viper.GetString("DEVTOOLS_URL"),
		DataDir:         dataDir,
		HTTPTimeout:     viper.GetInt("HTTP_TIMEOUT_SECONDS"),
		RegisterBaseURL: viper.GetString("REGISTER_BASE_URL"),
		BillingBaseURL:  viper.GetString("BILLING_BASE_URL"),
	}
}
