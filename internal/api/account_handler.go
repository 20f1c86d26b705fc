package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/services"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

// AccountHandler serves the account data and assessment endpoints.
type AccountHandler struct {
	assessments services.AssessmentService
	maxIDs      int
}

// NewAccountHandler creates the account handler.
func NewAccountHandler(assessments services.AssessmentService, cfg *config.Config) *AccountHandler {
	return &AccountHandler{assessments: assessments, maxIDs: cfg.MaxAnalyzeIDs}
}

// GetAccount returns one account's raw field data.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	account, err := h.assessments.AccountByID(ctx, c.Param("id"))
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, "Account retrieved", account)
}

// AssessAccount runs the full assessment pipeline for one account.
func (h *AccountHandler) AssessAccount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	assessment, err := h.assessments.AssessAccount(ctx, c.Param("id"))
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, "Account assessed", assessment)
}

// QueryAccounts returns accounts matching an optional WHERE clause.
func (h *AccountHandler) QueryAccounts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit < 1 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}

	accounts, err := h.assessments.QueryAccounts(ctx, c.Query("where"), limit)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, fmt.Sprintf("Retrieved %d accounts", len(accounts)), gin.H{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

type analyzeQueryRequest struct {
	SOQLQuery string `json:"soql_query" binding:"required"`
	MaxIDs    *int   `json:"max_ids"` // nil or absent means all results
}

// AnalyzeQuery resolves a caller-supplied ID query and assesses every
// account it returns.
func (h *AccountHandler) AnalyzeQuery(c *gin.Context) {
	var req analyzeQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required field: soql_query")
		return
	}
	if req.MaxIDs != nil && (*req.MaxIDs < 1 || *req.MaxIDs > h.maxIDs) {
		respondError(c, http.StatusBadRequest, fmt.Sprintf(
			"max_ids must be an integer between 1 and %d, or leave blank for all results", h.maxIDs))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Minute)
	defer cancel()

	analysis, err := h.assessments.AnalyzeQuery(ctx, req.SOQLQuery, req.MaxIDs)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, fmt.Sprintf("Analyzed %d accounts", len(analysis.Batch.Assessments)), analysis)
}

type accountIDsRequest struct {
	AccountIDs []string `json:"account_ids" binding:"required"`
}

// GetAccountsData returns full field data for a list of identifiers.
func (h *AccountHandler) GetAccountsData(c *gin.Context) {
	var req accountIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required field: account_ids")
		return
	}
	if len(req.AccountIDs) > h.maxIDs {
		respondError(c, http.StatusBadRequest, fmt.Sprintf(
			"Cannot request data for more than %d accounts at once", h.maxIDs))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	accounts, err := h.assessments.AccountsData(ctx, req.AccountIDs)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, fmt.Sprintf("Retrieved data for %d accounts", len(accounts)), gin.H{
		"accounts": accounts,
		"count":    len(accounts),
	})
}
