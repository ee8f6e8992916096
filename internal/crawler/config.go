package crawler

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a snapshot
// run. All values originate from Viper so the pipeline can be configured
// via files, env vars, or CLI flags, but the struct itself is decoupled
// from Viper for testability.
type Config struct {
	Protocol        string
	RequestTimeout  time.Duration
	ConnectionLimit int

	PagesList        string
	ResourcesList    string
	TranslationsList string

	OutputDir          string
	SitesFolder        string
	ResourcesFolder    string
	TranslationsFolder string
	ClientsFolder      string
	ServerFolder       string

	Mode string
}

// Run modes selectable via config or the --mode flag.
const (
	ModeAll          = "all"
	ModeWeb          = "web"
	ModeResources    = "web_res"
	ModeTranslations = "web_tr"
)

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Protocol:           v.GetString("crawl.protocol"),
		RequestTimeout:     v.GetDuration("crawl.request_timeout"),
		ConnectionLimit:    v.GetInt("crawl.connection_limit"),
		PagesList:          v.GetString("lists.pages"),
		ResourcesList:      v.GetString("lists.resources"),
		TranslationsList:   v.GetString("lists.translations"),
		OutputDir:          v.GetString("output.dir"),
		SitesFolder:        v.GetString("output.sites_folder"),
		ResourcesFolder:    v.GetString("output.resources_folder"),
		TranslationsFolder: v.GetString("output.translations_folder"),
		ClientsFolder:      v.GetString("output.clients_folder"),
		ServerFolder:       v.GetString("output.server_folder"),
		Mode:               v.GetString("crawl.mode"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.Protocol == "" {
		return fmt.Errorf("crawl.protocol must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawl.request_timeout must be > 0")
	}
	if c.ConnectionLimit <= 0 {
		return fmt.Errorf("crawl.connection_limit must be > 0")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output.dir must be set")
	}
	switch c.Mode {
	case ModeAll, ModeWeb, ModeResources, ModeTranslations:
	default:
		return fmt.Errorf("crawl.mode %q is not one of all, web, web_res, web_tr", c.Mode)
	}
	switch c.Mode {
	case ModeAll:
		if c.PagesList == "" || c.ResourcesList == "" || c.TranslationsList == "" {
			return fmt.Errorf("mode all requires lists.pages, lists.resources and lists.translations")
		}
	case ModeWeb:
		if c.PagesList == "" {
			return fmt.Errorf("mode web requires lists.pages")
		}
	case ModeResources:
		if c.ResourcesList == "" {
			return fmt.Errorf("mode web_res requires lists.resources")
		}
	case ModeTranslations:
		if c.TranslationsList == "" {
			return fmt.Errorf("mode web_tr requires lists.translations")
		}
	}
	return nil
}
