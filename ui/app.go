// Package ui exposes the HTTP API.
package ui

import (
	"log"
	"net/http"

	"tribunal/app"
	"tribunal/internal/config"

	"github.com/gin-gonic/gin"
)

// App wires the HTTP API around the application services.
type App struct {
	router *gin.Engine
	port   string
}

// Services collects the application services the API depends on.
type Services struct {
	Auth      *app.AuthService
	Cases     *app.CaseService
	Documents *app.DocumentService
	Arguments *app.ArgumentService
	Verdicts  *app.VerdictService
}

// NewApp creates the API application with all routes registered.
func NewApp(cfg *config.ServerConfig, svc Services) *App {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	authHandler := NewAuthHandler(svc.Auth)
	caseHandler := NewCaseHandler(svc.Cases, svc.Documents, svc.Arguments, svc.Verdicts)
	documentHandler := NewDocumentHandler(svc.Documents)
	argumentHandler := NewArgumentHandler(svc.Arguments)
	verdictHandler := NewVerdictHandler(svc.Verdicts)

	api := router.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(RequireAuth(svc.Auth))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.POST("/cases", caseHandler.Create)
		authed.GET("/cases", caseHandler.List)
		authed.GET("/cases/:caseId", caseHandler.Get)
		authed.PATCH("/cases/:caseId", caseHandler.Update)
		authed.DELETE("/cases/:caseId", caseHandler.Delete)
		authed.POST("/cases/:caseId/finalize", caseHandler.Finalize)
		authed.GET("/cases/:caseId/report", caseHandler.Report)
		authed.GET("/cases/:caseId/export", caseHandler.Export)

		authed.POST("/cases/:caseId/documents", documentHandler.Upload)
		authed.GET("/cases/:caseId/documents", documentHandler.List)
		authed.GET("/cases/:caseId/documents/:documentId", documentHandler.Get)
		authed.DELETE("/cases/:caseId/documents/:documentId", documentHandler.Delete)

		authed.POST("/cases/:caseId/verdict", verdictHandler.GenerateInitial)
		authed.GET("/cases/:caseId/verdicts", verdictHandler.List)
		authed.GET("/cases/:caseId/verdicts/:round", verdictHandler.GetByRound)

		authed.POST("/cases/:caseId/arguments", argumentHandler.Submit)
		authed.GET("/cases/:caseId/arguments", argumentHandler.List)
		authed.POST("/cases/:caseId/arguments/resume", argumentHandler.Resume)
	}

	return &App{router: router, port: cfg.Port}
}

// Handler returns the underlying HTTP handler, used by tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Start runs the HTTP server. Blocks until the server stops.
func (a *App) Start() error {
	addr := ":" + a.port
	log.Printf("[API] Listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
