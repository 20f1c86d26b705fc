package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

// StoreDiagnostics is the record-store surface the system endpoints need.
type StoreDiagnostics interface {
	TestConnection(ctx context.Context) (bool, string)
	ConnectionInfo() map[string]string
}

// AIDiagnostics is the judge surface the system endpoints need.
type AIDiagnostics interface {
	TestConnection(ctx context.Context) (bool, string)
	TestCompletion(ctx context.Context) (string, error)
}

// SystemHandler serves the service metadata and diagnostics endpoints.
type SystemHandler struct {
	cfg   *config.Config
	store StoreDiagnostics
	ai    AIDiagnostics
}

// NewSystemHandler creates the diagnostics handler.
func NewSystemHandler(cfg *config.Config, store StoreDiagnostics, ai AIDiagnostics) *SystemHandler {
	return &SystemHandler{cfg: cfg, store: store, ai: ai}
}

// Info describes the API surface.
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Account to Shell Account Assessment API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": gin.H{
			"health":            "/health",
			"debug_config":      "/debug-config",
			"salesforce_test":   "/test-salesforce-connection",
			"openai_test":       "/test-openai-connection",
			"openai_completion": "/test-openai-completion",
			"get_account":       "/account/:id",
			"assess_account":    "/account/:id/assess",
			"query_accounts":    "/accounts",
			"analyze_query":     "/accounts/analyze-query",
			"get_accounts_data": "/accounts/get-data",
		},
	})
}

// Health is the liveness probe.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Account to Shell Account Assessment API",
	})
}

// DebugConfig reports which credentials are present without revealing them.
func (h *SystemHandler) DebugConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"salesforce": gin.H{
			"username_present": h.cfg.SFUsername != "",
			"password_present": h.cfg.SFPassword != "",
			"token_present":    h.cfg.SFSecurityToken != "",
			"login_url":        h.cfg.SFLoginURL,
			"api_version":      h.cfg.SFAPIVersion,
		},
		"openai": gin.H{
			"api_key_present":        h.cfg.OpenAIAPIKey != "",
			"api_key_length":         len(h.cfg.OpenAIAPIKey),
			"api_key_starts_with_sk": strings.HasPrefix(h.cfg.OpenAIAPIKey, "sk-"),
			"model":                  h.cfg.OpenAIModel,
		},
		"environment": h.cfg.Environment,
	})
}

// TestSalesforceConnection checks record store reachability.
func (h *SystemHandler) TestSalesforceConnection(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	ok, message := h.store.TestConnection(ctx)
	if !ok {
		respondError(c, http.StatusBadGateway, message)
		return
	}
	respondSuccess(c, message, h.store.ConnectionInfo())
}

// TestOpenAIConnection checks judge reachability.
func (h *SystemHandler) TestOpenAIConnection(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	ok, message := h.ai.TestConnection(ctx)
	if !ok {
		respondError(c, http.StatusBadGateway, message)
		return
	}
	respondSuccess(c, message, nil)
}

// TestOpenAICompletion runs one round trip through the completion endpoint.
func (h *SystemHandler) TestOpenAICompletion(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	reply, err := h.ai.TestCompletion(ctx)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, "Completion successful", gin.H{"response": reply})
}
