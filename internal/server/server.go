/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"accredited-programmes-ui/config"
	"accredited-programmes-ui/internal/client"
	"accredited-programmes-ui/internal/database"
	"accredited-programmes-ui/internal/dto"
	"accredited-programmes-ui/internal/handler"
	"accredited-programmes-ui/internal/metrics"
	"accredited-programmes-ui/internal/middleware"
	"accredited-programmes-ui/internal/model"
	"accredited-programmes-ui/internal/paths"
	"accredited-programmes-ui/internal/service"
	"accredited-programmes-ui/internal/session"
	"accredited-programmes-ui/internal/tokenstore"
	"accredited-programmes-ui/internal/view"
)

// Server is the UI HTTP server with its supporting metrics endpoint
type Server struct {
	router        *gin.Engine
	httpServer    *http.Server
	metricsServer *metrics.Server
	redis         *redis.Client
	logger        *zap.Logger
}

// stores are the shared state backends, Redis in deployed environments and memory locally
type stores struct {
	tokens   tokenstore.TokenStore
	sessions session.Store
	redis    *redis.Client
}

func newStores(cfg *config.Server, logger *zap.Logger) (*stores, error) {
	if !cfg.Redis.Enabled {
		logger.Warn("Redis disabled, sessions and system tokens are held in memory")
		return &stores{
			tokens:   tokenstore.NewMemoryStore(),
			sessions: session.NewMemoryStore(cfg.Session.Expiry()),
		}, nil
	}

	rdb, err := database.NewConnection(cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()), zap.Bool("tls", cfg.Redis.TLSEnabled))
	return &stores{
		tokens:   tokenstore.NewRedisStore(rdb),
		sessions: session.NewRedisStore(rdb, cfg.Session.Expiry()),
		redis:    rdb,
	}, nil
}

// NewServer creates a new server instance with all dependencies initialized
func NewServer(ctx context.Context, cfg *config.Server, logger *zap.Logger) (*Server, error) {
	st, err := newStores(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Upstreams, each with its own connection pool and timeouts
	apiUpstream := client.NewUpstream(client.UpstreamConfigFrom(client.AccreditedProgrammesAPIName, cfg.AccreditedProgrammesAPI), logger)
	prisonUpstream := client.NewUpstream(client.UpstreamConfigFrom(client.PrisonAPIName, cfg.PrisonAPI), logger)
	searchUpstream := client.NewUpstream(client.UpstreamConfigFrom(client.PrisonerSearchAPIName, cfg.PrisonerSearchAPI), logger)
	usersUpstream := client.NewUpstream(client.UpstreamConfigFrom(client.ManageUsersAPIName, cfg.ManageUsersAPI), logger)
	authUpstream := client.NewUpstream(client.UpstreamConfigFrom(client.HmppsAuthName, cfg.HmppsAuth.UpstreamAPI), logger)
	verificationUpstream := client.NewUpstream(client.UpstreamConfigFrom(client.TokenVerificationName, cfg.TokenVerification.UpstreamAPI), logger)

	authClient := client.NewHmppsAuthClient(authUpstream, st.tokens, client.HmppsAuthConfig{
		ExternalURL:        cfg.HmppsAuth.ExternalURL,
		APIClientID:        cfg.HmppsAuth.APIClientID,
		APIClientSecret:    cfg.HmppsAuth.APIClientSecret,
		SystemClientID:     cfg.HmppsAuth.SystemClientID,
		SystemClientSecret: cfg.HmppsAuth.SystemClientSecret,
	}, logger)
	verificationClient := client.NewTokenVerificationClient(verificationUpstream, cfg.TokenVerification.Enabled, logger)

	// Per request client builders
	courseClients := client.NewBuilder(apiUpstream, client.NewCourseClient)
	participationClients := client.NewBuilder(apiUpstream, client.NewCourseParticipationClient)
	referralClients := client.NewBuilder(apiUpstream, client.NewReferralClient)
	referenceDataClients := client.NewBuilder(apiUpstream, client.NewReferenceDataClient)
	organisationClients := client.NewBuilder(apiUpstream, client.NewOrganisationClient)
	statisticsClients := client.NewBuilder(apiUpstream, client.NewStatisticsClient)
	pniClients := client.NewBuilder(apiUpstream, client.NewPniClient)
	oasysClients := client.NewBuilder(apiUpstream, client.NewOasysClient)
	prisonerSearchClients := client.NewBuilder(searchUpstream, client.NewPrisonerSearchClient)
	prisonAPIClients := client.NewBuilder(prisonUpstream, client.NewPrisonAPIClient)
	manageUsersClients := client.NewBuilder(usersUpstream, client.NewManageUsersClient)

	// Initialize services
	referralService := service.NewReferralService(referralClients, logger)
	courseService := service.NewCourseService(courseClients, participationClients, logger)
	personService := service.NewPersonService(authClient, prisonerSearchClients, prisonAPIClients, logger)
	organisationService := service.NewOrganisationService(organisationClients, logger)
	referenceDataService := service.NewReferenceDataService(referenceDataClients)
	userService := service.NewUserService(manageUsersClients, prisonAPIClients, logger)
	statisticsService := service.NewStatisticsService(statisticsClients)
	pniService := service.NewPniService(pniClients, oasysClients, logger)
	healthService := service.NewHealthService(
		[]service.Pinger{apiUpstream, prisonUpstream, searchUpstream, usersUpstream, authUpstream, verificationUpstream},
		dto.BuildInfo{BuildNumber: cfg.Build.Number, GitRef: cfg.Build.GitRef},
		logger,
	)

	var publisher service.SQSPublisher
	if cfg.Audit.Enabled {
		sqsClient, err := service.NewSQSClient(ctx, cfg.Audit.Region)
		if err != nil {
			return nil, err
		}
		publisher = sqsClient
	}
	auditService := service.NewAuditService(publisher, cfg.Audit.QueueURL, cfg.Audit.ServiceName, logger)

	auditRules := middleware.DefaultAuditRules()
	if cfg.Audit.RedirectRulesPath != "" {
		rules, err := middleware.LoadAuditRules(cfg.Audit.RedirectRulesPath)
		if err != nil {
			return nil, err
		}
		auditRules = rules
	}

	renderer, err := view.NewHTMLRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(healthService)
	authHandler := handler.NewAuthHandler(authClient, auditService, cfg.IngressURL, renderer, logger)
	referralHandler := handler.NewReferralHandler(referralService, courseService, personService, organisationService, renderer, logger)
	oasysHandler := handler.NewOasysHandler(referralService, pniService, renderer, logger)
	additionalInformationHandler := handler.NewAdditionalInformationHandler(referralService, renderer, logger)
	participationHandler := handler.NewCourseParticipationHandler(referralService, courseService, personService, renderer, logger)
	withdrawHandler := handler.NewWithdrawHandler(referralService, referenceDataService, auditService, renderer, logger)
	submittedHandler := handler.NewSubmittedReferralHandler(referralService, courseService, personService, userService, renderer, logger)
	caseListHandler := handler.NewCaseListHandler(referralService, courseService, renderer, logger)
	courseHandler := handler.NewCourseHandler(courseService, organisationService, renderer, logger)
	pniHandler := handler.NewPniHandler(personService, pniService, renderer, logger)
	reportHandler := handler.NewReportHandler(statisticsService, renderer, logger)

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CorrelationIDMiddleware(logger))
	router.Use(middleware.ErrorHandlingMiddleware(logger, renderer))
	router.Use(middleware.LoggingMiddleware(logger))
	if cfg.Metrics.Enabled {
		router.Use(middleware.MetricsMiddleware())
	}

	// Probes run without a session
	healthHandler.RegisterRoutes(router)

	app := router.Group("")
	app.Use(middleware.SessionMiddleware(st.sessions, middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Production,
		Expiry:     cfg.Session.Expiry(),
	}, logger))
	authHandler.RegisterPublicRoutes(app)

	app.Use(middleware.AuthMiddleware(middleware.AuthConfig{
		SkipPaths: []string{paths.SignIn, paths.SignOut, paths.AuthError, paths.Health, paths.Ping},
		Verifier:  verificationClient,
		Users:     userService,
	}, logger))
	app.Use(middleware.AuditRedirectMiddleware(auditService, auditRules, logger))
	authHandler.RegisterRoutes(app)
	courseHandler.RegisterRoutes(app)
	reportHandler.RegisterRoutes(app)

	refer := app.Group("", middleware.RequireRole(model.RoleReferrer, model.RoleHspReferrer))
	referralHandler.RegisterRoutes(refer)
	oasysHandler.RegisterRoutes(refer)
	additionalInformationHandler.RegisterRoutes(refer)
	participationHandler.RegisterRoutes(refer)
	caseListHandler.RegisterReferRoutes(refer)
	withdrawHandler.RegisterRoutes(refer, paths.Refer)
	submittedHandler.RegisterRoutes(refer, paths.Refer)

	assess := app.Group("", middleware.RequireRole(model.RoleProgrammeTeam))
	caseListHandler.RegisterAssessRoutes(assess)
	withdrawHandler.RegisterRoutes(assess, paths.Assess)
	submittedHandler.RegisterRoutes(assess, paths.Assess)

	pni := app.Group("", middleware.RequireRole(model.RoleReferrer), middleware.PniOrganisationGate(cfg.Pni.OrganisationIDs))
	pniHandler.RegisterRoutes(pni)

	s := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		redis:  st.redis,
		logger: logger,
	}
	if cfg.Metrics.Enabled {
		s.metricsServer = metrics.NewServer(cfg.Metrics.Port, logger)
	}
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	if s.metricsServer != nil {
		if err := s.metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		metrics.Up.Set(1)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if s.metricsServer != nil {
		metrics.Up.Set(0)
		if err := s.metricsServer.Stop(shutdownCtx); err != nil {
			s.logger.Error("Failed to stop metrics server", zap.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
	s.logger.Info("Server stopped")
	return nil
}
