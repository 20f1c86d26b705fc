package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/ai"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/api"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/baddomain"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/logger"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/salesforce"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/scoring"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/services"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	cfg := config.New()

	log := logger.New(cfg.Environment)

	if !cfg.HasSalesforceCredentials() {
		log.Warn("Salesforce credentials not configured; record store calls will fail")
	}
	if !cfg.HasOpenAIKey() {
		log.Warn("OpenAI API key not configured; AI judgment stage disabled")
	}

	// A missing bad-domain file yields an empty set, not a startup failure.
	badDomains, err := baddomain.Load(cfg.BadDomainsPath)
	if err != nil {
		log.Warn("could not load bad domain list", "path", cfg.BadDomainsPath, "error", err)
		badDomains = baddomain.NewSet()
	}
	log.Info("bad domain list loaded", "path", cfg.BadDomainsPath, "domains", badDomains.Len())

	sfClient := salesforce.NewClient(cfg)

	var judge scoring.Judge
	aiClient := ai.NewClient(cfg)
	if cfg.HasOpenAIKey() {
		judge = aiClient
	}

	pipeline := scoring.NewPipeline(scoring.NewEngine(badDomains), sfClient, judge, log)
	assessments := services.NewAssessmentService(sfClient, pipeline, cfg, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	api.SetupRoutes(r, api.Dependencies{
		Config:      cfg,
		Log:         log,
		Assessments: assessments,
		Store:       sfClient,
		AI:          aiClient,
	})

	log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server failed", err)
	}
}
