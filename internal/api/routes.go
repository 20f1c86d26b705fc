package api

import (
	"github.com/gin-gonic/gin"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/logger"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/middleware"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/services"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

// Dependencies carries everything the route tree needs.
type Dependencies struct {
	Config      *config.Config
	Log         logger.Logger
	Assessments services.AssessmentService
	Store       StoreDiagnostics
	AI          AIDiagnostics
}

// SetupRoutes configures middleware and all API routes.
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging(deps.Log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(deps.Config))
	r.Use(middleware.BodyLimit())
	r.Use(middleware.RateLimit(100))

	systemHandler := NewSystemHandler(deps.Config, deps.Store, deps.AI)
	accountHandler := NewAccountHandler(deps.Assessments, deps.Config)
	excelHandler := NewExcelHandler(deps.Assessments)

	r.GET("/api", systemHandler.Info)
	r.GET("/health", systemHandler.Health)
	r.GET("/debug-config", systemHandler.DebugConfig)
	r.GET("/test-salesforce-connection", systemHandler.TestSalesforceConnection)
	r.GET("/test-openai-connection", systemHandler.TestOpenAIConnection)
	r.GET("/test-openai-completion", systemHandler.TestOpenAICompletion)

	r.GET("/account/:id", accountHandler.GetAccount)
	r.POST("/account/:id", accountHandler.GetAccount)
	r.POST("/account/:id/assess", accountHandler.AssessAccount)
	r.GET("/accounts", accountHandler.QueryAccounts)
	r.POST("/accounts/analyze-query", accountHandler.AnalyzeQuery)
	r.POST("/accounts/get-data", accountHandler.GetAccountsData)

	r.POST("/excel/parse", excelHandler.ParseExcel)
	r.POST("/excel/validate-account-ids", excelHandler.ValidateAccountIDs)

	r.POST("/export/soql-analysis", excelHandler.ExportSOQLAnalysis)
	r.POST("/export/single-account", excelHandler.ExportSingleAccount)
	r.POST("/export/excel-analysis", excelHandler.ExportExcelAnalysis)
}
