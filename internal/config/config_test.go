package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultClientID, cfg.ClientID)
	assert.False(t, cfg.RefreshTokens)
	assert.Empty(t, cfg.Scopes)
	assert.Equal(t, ":8888", cfg.Addr)
	assert.Equal(t, "/", cfg.BaseURL)
	assert.Equal(t, "https://auth.globus.org", cfg.AuthBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.IdentityCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.NotContains(t, cfg.TokenStoragePath, "~")
	assert.False(t, cfg.IsHub())
	assert.False(t, cfg.TrustForwardedHeaders)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GLOBUS_CLIENT_ID", "custom-client")
	t.Setenv("GLOBUS_REFRESH_TOKENS", "true")
	t.Setenv("GLOBUS_SCOPES", "urn:globus:auth:scope:transfer.api.globus.org:all, openid")
	t.Setenv("GLOBUS_TRANSFER_SUBMISSION_URL", "https://submit.example.org/transfer")
	t.Setenv("GLOBUS_TRANSFER_SUBMISSION_SCOPE", "http://myscope")
	t.Setenv("GLOBUS_COLLECTION_ID", "host-collection")
	t.Setenv("GLOBUS_HOST_POSIX_BASEPATH", "/home/jovyan")
	t.Setenv("GLOBUS_IDENTITY_CACHE_TTL", "30s")
	t.Setenv("GLOBUS_TRUST_FORWARDED_HEADERS", "true")
	t.Setenv("JUPYTERHUB_API_TOKEN", "hub-token")
	t.Setenv("JUPYTERHUB_SERVICE_PREFIX", "/user/alice/")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "custom-client", cfg.ClientID)
	assert.True(t, cfg.RefreshTokens)
	assert.Equal(t, []string{"urn:globus:auth:scope:transfer.api.globus.org:all", "openid"}, cfg.Scopes)
	assert.Equal(t, "https://submit.example.org/transfer", cfg.TransferSubmissionURL)
	assert.Equal(t, "http://myscope", cfg.TransferSubmissionScope)
	assert.Equal(t, "host-collection", cfg.CollectionID)
	assert.Equal(t, "/home/jovyan", cfg.HostPosixBasepath)
	assert.Equal(t, 30*time.Second, cfg.IdentityCacheTTL)
	assert.True(t, cfg.TrustForwardedHeaders)
	assert.Equal(t, "hub-token", cfg.HubToken)
	assert.True(t, cfg.IsHub())
	assert.Equal(t, "/user/alice", cfg.BaseURL)
	assert.Equal(t, "/user/alice/login", cfg.Route("login"))
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collection_id: from-file\nlog_level: debug\n"), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.CollectionID)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{ClientID: "c", AuthBaseURL: "https://auth.globus.org"}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"missing client id", func(c *Config) { c.ClientID = "" }, ErrMissingClientID},
		{"scope without url", func(c *Config) { c.TransferSubmissionScope = "http://myscope" }, ErrSubmissionScopeWithoutURL},
		{"hub service without token", func(c *Config) {
			c.TransferSubmissionURL = "https://submit.example.org"
			c.TransferSubmissionIsHubService = true
		}, ErrHubServiceWithoutToken},
		{"base path without collection", func(c *Config) { c.HostCollectionBasepath = "/shares" }, ErrBasePathWithoutCollection},
		{"relative url", func(c *Config) { c.TransferSubmissionURL = "/submit" }, ErrInvalidURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
	assert.NoError(t, valid().Validate())
}

func TestRoute(t *testing.T) {
	assert.Equal(t, "/login", (&Config{BaseURL: "/"}).Route("/login"))
	assert.Equal(t, "/lab/globus/login", (&Config{BaseURL: "/lab/globus"}).Route("login"))
}
