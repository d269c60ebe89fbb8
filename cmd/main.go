package main

import (
	"context"
	"fmt"
	"os"

	"github.com/testbridge/testbridge-backend/internal/config"
	"github.com/testbridge/testbridge-backend/internal/db"
	"github.com/testbridge/testbridge-backend/internal/handlers"
	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/observability"
	"github.com/testbridge/testbridge-backend/internal/repos"
	"github.com/testbridge/testbridge-backend/internal/server"
	"github.com/testbridge/testbridge-backend/internal/services"
	"github.com/testbridge/testbridge-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "testbridge",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() { _ = shutdownOtel(context.Background()) }()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Engine policy
	log.Info("Loading engine policy from main...")
	engineCfg, err := config.Load(log)
	if err != nil {
		log.Error("Could not load engine policy", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	nodeRepo := repos.NewProcessNodeRepo(thePG, log)
	stepRepo := repos.NewProcessStepRepo(thePG, log)
	reqRepo := repos.NewRequirementRepo(thePG, log)
	itemRepo := repos.NewDevelopmentItemRepo(thePG, log)
	caseRepo := repos.NewTestCaseRepo(thePG, log)
	suiteRepo := repos.NewTestSuiteRepo(thePG, log)
	linkRepo := repos.NewCaseSuiteLinkRepo(thePG, log)
	planRepo := repos.NewTestPlanRepo(thePG, log)
	declRepo := repos.NewScopeDeclarationRepo(thePG, log)
	entryRepo := repos.NewPlanCaseEntryRepo(thePG, log)
	execRepo := repos.NewExecutionRepo(thePG, log)
	defectRepo := repos.NewDefectRepo(thePG, log)
	dataPackageRepo := repos.NewDataPackageRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	resolverService := services.NewAnchorResolverService(thePG, log, nodeRepo, stepRepo, reqRepo, itemRepo)
	policyService := services.NewLayerPolicyService(log, engineCfg)
	suiteLinkService := services.NewSuiteLinkService(thePG, log, suiteRepo, caseRepo, linkRepo)
	testCaseService := services.NewTestCaseService(thePG, log, caseRepo, resolverService, policyService)
	scopeService := services.NewScopeService(thePG, log, planRepo, declRepo, entryRepo, caseRepo, nodeRepo, reqRepo, itemRepo)
	suggestionService := services.NewSuggestionService(thePG, log, nodeRepo, reqRepo, itemRepo, caseRepo, planRepo, declRepo, entryRepo)
	coverageService := services.NewCoverageService(thePG, log, nodeRepo, reqRepo, itemRepo, caseRepo, planRepo, declRepo, entryRepo, execRepo)
	readinessChecker := services.NewDataPackageReadiness(dataPackageRepo)
	gateService := services.NewGateService(thePG, log, engineCfg, planRepo, entryRepo, execRepo, defectRepo, readinessChecker)

	// Handlers
	log.Info("Setting up handlers from main...")
	resolverHandler := handlers.NewResolverHandler(resolverService, policyService)
	suiteHandler := handlers.NewSuiteHandler(suiteLinkService)
	planHandler := handlers.NewPlanHandler(scopeService, suggestionService)
	coverageHandler := handlers.NewCoverageHandler(coverageService)
	gateHandler := handlers.NewGateHandler(gateService)
	testCaseHandler := handlers.NewTestCaseHandler(testCaseService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:     "testbridge",
		ResolverHandler: resolverHandler,
		SuiteHandler:    suiteHandler,
		PlanHandler:     planHandler,
		CoverageHandler: coverageHandler,
		GateHandler:     gateHandler,
		TestCaseHandler: testCaseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
