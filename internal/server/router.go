package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/testbridge/testbridge-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName     string
	ResolverHandler *handlers.ResolverHandler
	SuiteHandler    *handlers.SuiteHandler
	PlanHandler     *handlers.PlanHandler
	CoverageHandler *handlers.CoverageHandler
	GateHandler     *handlers.GateHandler
	TestCaseHandler *handlers.TestCaseHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Scope resolution
		api.POST("/scope/resolve-anchor", cfg.ResolverHandler.ResolveAnchor)
		api.POST("/scope/validate-layer", cfg.ResolverHandler.ValidateLayer)
		// Test cases
		api.POST("/cases", cfg.TestCaseHandler.Create)
		api.PUT("/cases/:id", cfg.TestCaseHandler.Relink)
		api.POST("/cases/:id/archive", cfg.TestCaseHandler.Archive)
		api.GET("/cases/:id/suites", cfg.SuiteHandler.ListSuites)
		// Suites
		api.POST("/suites", cfg.SuiteHandler.CreateSuite)
		api.POST("/suites/:id/cases", cfg.SuiteHandler.LinkCase)
		api.DELETE("/suites/:id/cases/:caseId", cfg.SuiteHandler.UnlinkCase)
		api.GET("/suites/:id/cases", cfg.SuiteHandler.ListCases)
		// Plans
		api.POST("/plans/:id/scope", cfg.PlanHandler.DeclareScope)
		api.DELETE("/plans/:id/scope/:declId", cfg.PlanHandler.RemoveDeclaration)
		api.GET("/plans/:id/suggestions", cfg.PlanHandler.SuggestCandidates)
		api.POST("/plans/:id/cases", cfg.PlanHandler.AddCases)
		api.DELETE("/plans/:id/cases/:caseId", cfg.PlanHandler.RemoveCase)
		api.GET("/plans/:id/coverage", cfg.CoverageHandler.PlanCoverage)
		api.GET("/plans/:id/anchors/:anchorId/coverage", cfg.CoverageHandler.AnchorCoverage)
		api.GET("/plans/:id/exit-gate", cfg.GateHandler.EvaluateExit)
	}

	return router
}
