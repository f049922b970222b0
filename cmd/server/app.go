package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"GlobusJupyter/internal/api/handlers/config"
	"GlobusJupyter/internal/api/handlers/oauth"
	"GlobusJupyter/internal/api/handlers/transfer"
	"GlobusJupyter/internal/api/middleware"
	"GlobusJupyter/internal/api/routes"
	appconfig "GlobusJupyter/internal/config"
	"GlobusJupyter/internal/core/login"
	"GlobusJupyter/internal/core/scopes"
	"GlobusJupyter/internal/core/tokens"
	"GlobusJupyter/internal/core/transfers"
	"GlobusJupyter/internal/db/sqlite"
	"GlobusJupyter/internal/globus/auth"
	transferapi "GlobusJupyter/internal/globus/transfer"
	"GlobusJupyter/internal/metrics"
)

// app holds the wired components shared by the CLI commands.
type app struct {
	cfg         *appconfig.Config
	logger      *slog.Logger
	redirectURI string
	db          *sql.DB
	policy      *scopes.Policy
	flow        *auth.Flow
	auth        *auth.Client
	tokens      *tokens.Manager
	metrics     *metrics.Metrics
	limiters    []*middleware.RateLimiter
}

func newApp(cfg *appconfig.Config, logger *slog.Logger) (*app, error) {
	db, err := sqlite.Open(cfg.TokenStoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open token storage: %w", err)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = defaultRedirectURI(cfg)
	}
	flow := auth.NewFlow(cfg.ClientID, redirectURI, cfg.AuthBaseURL, cfg.RefreshTokens)

	var refresher tokens.Refresher
	if cfg.RefreshTokens {
		refresher = flow
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		redirectURI: redirectURI,
		db:          db,
		policy:      scopes.NewPolicy(cfg.Scopes, cfg.TransferSubmissionScope),
		flow:        flow,
		auth:        auth.NewClient(cfg.AuthBaseURL, cfg.ClientID, cfg.HTTPTimeout),
		tokens:      tokens.NewManager(sqlite.NewTokenRepository(db), refresher, logger),
		metrics:     metrics.New(),
	}, nil
}

// router builds the HTTP surface, mounted under the configured base URL.
func (a *app) router() (http.Handler, error) {
	cfg := a.cfg
	loginPath := cfg.Route("login")

	transferClient := transferapi.NewClient(cfg.TransferBaseURL, a.tokens, cfg.HTTPTimeout)
	identities := auth.NewIdentitySource(a.auth, a.tokens, cfg.IdentityCacheTTL)
	loginService := login.NewService(a.policy, identities, a.metrics, a.logger)

	var submitter transfers.Submitter = transferClient
	if cfg.TransferSubmissionURL != "" {
		submitter = transfers.NewCustomSubmitter(transfers.CustomSubmitterConfig{
			URL:          cfg.TransferSubmissionURL,
			Scope:        cfg.TransferSubmissionScope,
			HubToken:     cfg.HubToken,
			IsHubService: cfg.TransferSubmissionIsHubService,
			Timeout:      cfg.HTTPTimeout,
		}, a.tokens)
	}
	translator := &transfers.PathTranslator{
		CollectionID:   cfg.CollectionID,
		PosixBase:      cfg.HostPosixBasepath,
		CollectionBase: cfg.HostCollectionBasepath,
	}
	transferService := transfers.NewService(submitter, translator, a.logger)

	secret, err := oauth.DecodeSecret(cfg.CookieSecret)
	if err != nil {
		return nil, err
	}
	cookies, err := oauth.NewCookieStore(secret, strings.HasPrefix(a.redirectURI, "https://"))
	if err != nil {
		return nil, err
	}
	verifier := auth.NewIDTokenVerifier(a.auth.JWKSURL(), a.auth.Issuer(), cfg.ClientID, cfg.HTTPTimeout)

	api := chi.NewRouter()
	routes.RegisterTransferRoutes(api, transfer.NewHandler(
		transferClient,
		transferService,
		transfer.NewResponder(loginService, loginPath, cfg.TrustForwardedHeaders, a.logger),
	))
	a.limiters = routes.RegisterOAuthRoutes(api, routes.OAuthHandlers{
		Login:    oauth.NewLoginHandler(a.flow, cookies, a.policy, path.Join(cfg.BaseURL, "lab"), a.logger),
		Callback: oauth.NewCallbackHandler(a.flow, cookies, a.tokens, verifier, a.logger),
		Logout:   oauth.NewLogoutHandler(a.tokens, a.auth, a.logger),
	}, []string{cfg.AuthBaseURL})
	routes.RegisterConfigRoutes(api, config.NewHandler(config.Settings{
		CollectionID:            cfg.CollectionID,
		CollectionBasePath:      cfg.HostCollectionBasepath,
		IsHub:                   cfg.IsHub(),
		TransferSubmissionURL:   cfg.TransferSubmissionURL,
		TransferSubmissionScope: cfg.TransferSubmissionScope,
		LoginPath:               loginPath,
		TrustForwardedHeaders:   cfg.TrustForwardedHeaders,
	}, a.tokens, loginService, a.logger), a.metrics.Handler())

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.BaseURL == "/" {
		r.Mount("/", api)
	} else {
		r.Mount(cfg.BaseURL, api)
	}
	return r, nil
}

func (a *app) Close() error {
	for _, l := range a.limiters {
		l.Stop()
	}
	return a.db.Close()
}

// defaultRedirectURI points Globus Auth back at the local callback.
func defaultRedirectURI(cfg *appconfig.Config) string {
	host, port, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		host, port = "", "8888"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	u := url.URL{Scheme: "http", Host: net.JoinHostPort(host, port), Path: cfg.Route("oauth_callback")}
	return u.String()
}
