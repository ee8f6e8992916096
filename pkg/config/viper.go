// Package config initializes the application's configuration. It uses
// Viper to read settings from a config file and environment variables,
// providing a unified configuration system for all commands.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// InitConfig sets defaults, search paths and environment binding. It is
// called once at startup via cobra.OnInitialize so that configuration
// is loaded before any command runs.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/tgcrawl/")
	viper.AddConfigPath("$HOME/.tgcrawl")

	viper.SetDefault("crawl.protocol", "https://")
	viper.SetDefault("crawl.request_timeout", "10s")
	viper.SetDefault("crawl.connection_limit", 300)
	viper.SetDefault("crawl.mode", "all")

	viper.SetDefault("lists.pages", "tracked_links.txt")
	viper.SetDefault("lists.resources", "tracked_res_links.txt")
	viper.SetDefault("lists.translations", "tracked_tr_links.txt")

	viper.SetDefault("output.dir", "data/")
	viper.SetDefault("output.sites_folder", "web")
	viper.SetDefault("output.resources_folder", "web_res")
	viper.SetDefault("output.translations_folder", "web_tr")
	viper.SetDefault("output.clients_folder", "client")
	viper.SetDefault("output.server_folder", "server")

	viper.SetDefault("storage.provider", "local")
	viper.SetDefault("logging.development", false)
	viper.SetDefault("metrics.addr", "")

	viper.SetEnvPrefix("TGCRAWL") // e.g. TGCRAWL_CRAWL_MODE=web
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults and env vars carry the run.
	_ = viper.ReadInConfig()
}
