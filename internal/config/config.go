// Package config loads the server configuration from GLOBUS_* environment
// variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultClientID is the registered native-app client of the JupyterLab extension.
const DefaultClientID = "64d2d5b3-b77e-4e04-86d9-e3f143f563f7"

var (
	// ErrMissingClientID is returned when no Globus client id is configured.
	ErrMissingClientID = errors.New("client_id is required")
	// ErrSubmissionScopeWithoutURL is returned when a submission scope is set without a submission URL.
	ErrSubmissionScopeWithoutURL = errors.New("transfer_submission_scope requires transfer_submission_url")
	// ErrHubServiceWithoutToken is returned when the submission service is a hub service but no hub token is set.
	ErrHubServiceWithoutToken = errors.New("transfer_submission_is_hub_service requires JUPYTERHUB_API_TOKEN")
	// ErrBasePathWithoutCollection is returned when host path translation is configured without a collection id.
	ErrBasePathWithoutCollection = errors.New("host base paths require collection_id")
	// ErrInvalidURL is returned for URL settings that do not parse as absolute URLs.
	ErrInvalidURL = errors.New("invalid URL")
)

// Config is the full server configuration.
type Config struct {
	ClientID      string
	RefreshTokens bool
	Scopes        []string

	TransferSubmissionURL          string
	TransferSubmissionScope        string
	TransferSubmissionIsHubService bool

	CollectionID           string
	HostPosixBasepath      string
	HostCollectionBasepath string

	TokenStoragePath string

	Addr         string
	BaseURL      string
	RedirectURI  string
	CookieSecret string

	AuthBaseURL     string
	TransferBaseURL string
	HTTPTimeout     time.Duration

	LogLevel string
	LogFile  string

	IdentityCacheTTL time.Duration

	// TrustForwardedHeaders honors X-Forwarded-Proto and X-Forwarded-Host.
	// Only enable it behind a proxy that sets them.
	TrustForwardedHeaders bool

	HubToken         string
	HubServicePrefix string
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GLOBUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("client_id", DefaultClientID)
	v.SetDefault("refresh_tokens", false)
	v.SetDefault("scopes", "")
	v.SetDefault("token_storage_path", "~/.globus_jupyterlab_tokens.db")
	v.SetDefault("addr", ":8888")
	v.SetDefault("base_url", "/")
	v.SetDefault("auth_base_url", "https://auth.globus.org")
	v.SetDefault("transfer_base_url", "https://transfer.api.globus.org/v0.10")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("identity_cache_ttl", 5*time.Minute)
	v.SetDefault("trust_forwarded_headers", false)

	_ = v.BindEnv("hub_token", "JUPYTERHUB_API_TOKEN")
	_ = v.BindEnv("hub_service_prefix", "JUPYTERHUB_SERVICE_PREFIX")
	return v
}

// Load reads an optional config file into v and builds a validated Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		ClientID:                       v.GetString("client_id"),
		RefreshTokens:                  v.GetBool("refresh_tokens"),
		Scopes:                         splitList(v.GetString("scopes")),
		TransferSubmissionURL:          v.GetString("transfer_submission_url"),
		TransferSubmissionScope:        v.GetString("transfer_submission_scope"),
		TransferSubmissionIsHubService: v.GetBool("transfer_submission_is_hub_service"),
		CollectionID:                   v.GetString("collection_id"),
		HostPosixBasepath:              v.GetString("host_posix_basepath"),
		HostCollectionBasepath:         v.GetString("host_collection_basepath"),
		TokenStoragePath:               expandHome(v.GetString("token_storage_path")),
		Addr:                           v.GetString("addr"),
		BaseURL:                        v.GetString("base_url"),
		RedirectURI:                    v.GetString("redirect_uri"),
		CookieSecret:                   v.GetString("cookie_secret"),
		AuthBaseURL:                    strings.TrimSuffix(v.GetString("auth_base_url"), "/"),
		TransferBaseURL:                strings.TrimSuffix(v.GetString("transfer_base_url"), "/"),
		HTTPTimeout:                    v.GetDuration("http_timeout"),
		LogLevel:                       v.GetString("log_level"),
		LogFile:                        expandHome(v.GetString("log_file")),
		IdentityCacheTTL:               v.GetDuration("identity_cache_ttl"),
		TrustForwardedHeaders:          v.GetBool("trust_forwarded_headers"),
		HubToken:                       v.GetString("hub_token"),
		HubServicePrefix:               v.GetString("hub_service_prefix"),
	}

	if cfg.BaseURL == "" || cfg.BaseURL == "/" {
		if cfg.HubServicePrefix != "" {
			cfg.BaseURL = cfg.HubServicePrefix
		}
	}
	cfg.BaseURL = "/" + strings.Trim(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return ErrMissingClientID
	}
	if c.TransferSubmissionScope != "" && c.TransferSubmissionURL == "" {
		return ErrSubmissionScopeWithoutURL
	}
	if c.TransferSubmissionIsHubService && c.HubToken == "" {
		return ErrHubServiceWithoutToken
	}
	if (c.HostPosixBasepath != "" || c.HostCollectionBasepath != "") && c.CollectionID == "" {
		return ErrBasePathWithoutCollection
	}
	for name, raw := range map[string]string{
		"auth_base_url":           c.AuthBaseURL,
		"transfer_base_url":       c.TransferBaseURL,
		"transfer_submission_url": c.TransferSubmissionURL,
		"redirect_uri":            c.RedirectURI,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s=%q", ErrInvalidURL, name, raw)
		}
	}
	return nil
}

// IsHub reports whether the server runs inside JupyterHub.
func (c *Config) IsHub() bool {
	return c.HubToken != ""
}

// Route joins a path onto the configured base URL.
func (c *Config) Route(p string) string {
	if c.BaseURL == "/" {
		return "/" + strings.TrimPrefix(p, "/")
	}
	return c.BaseURL + "/" + strings.TrimPrefix(p, "/")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
