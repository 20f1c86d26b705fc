package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/excel"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelHandler serves workbook upload and export endpoints.
type ExcelHandler struct {
	assessments services.AssessmentService
}

// NewExcelHandler creates the workbook handler.
func NewExcelHandler(assessments services.AssessmentService) *ExcelHandler {
	return &ExcelHandler{assessments: assessments}
}

// ParseExcel summarizes an uploaded workbook: sheet names, headers, and a
// short preview of the first sheet.
func (h *ExcelHandler) ParseExcel(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		respondError(c, http.StatusBadRequest, "File must be an .xlsx workbook")
		return
	}

	summary, err := excel.ParseWorkbook(file)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, fmt.Sprintf("Parsed %s", header.Filename), summary)
}

// ValidateAccountIDs extracts identifiers from an uploaded workbook column,
// validates all of them against the record store, and returns full account
// data only when every identifier is valid.
func (h *ExcelHandler) ValidateAccountIDs(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	sheetName := c.PostForm("sheet_name")
	idColumn := c.PostForm("account_id_column")
	if sheetName == "" || idColumn == "" {
		respondError(c, http.StatusBadRequest, "sheet_name and account_id_column are required")
		return
	}

	extraction, err := excel.ExtractAccountIDs(file, sheetName, idColumn)
	if err != nil {
		respondAppError(c, err)
		return
	}
	if len(extraction.AccountIDs) == 0 {
		respondError(c, http.StatusBadRequest, fmt.Sprintf(
			"No Account IDs found in column %q of sheet %q", idColumn, sheetName))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	validation, err := h.assessments.ValidateAccountIDs(ctx, extraction.AccountIDs)
	if err != nil {
		respondAppError(c, err)
		return
	}
	if len(validation.InvalidAccountIDs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"message": fmt.Sprintf(
				"Invalid Account IDs found: %s. All Account IDs must be valid to proceed with analysis.",
				strings.Join(validation.InvalidAccountIDs, ", ")),
			"data": gin.H{
				"invalid_account_ids": validation.InvalidAccountIDs,
				"valid_account_ids":   validation.ValidAccountIDs,
				"total_from_excel":    len(extraction.AccountIDs),
			},
		})
		return
	}

	accounts, err := h.assessments.AccountsData(ctx, validation.ValidAccountIDs)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c,
		fmt.Sprintf("Successfully validated and retrieved data for %d accounts from Excel file", len(accounts)),
		gin.H{
			"validation_summary": gin.H{
				"total_ids_from_excel": len(extraction.AccountIDs),
				"valid_account_ids":    len(validation.ValidAccountIDs),
				"invalid_account_ids":  0,
				"original_data_rows":   extraction.TotalRows,
			},
			"accounts":            accounts,
			"original_excel_data": extraction.OriginalData,
			"excel_info": gin.H{
				"sheet_name":        sheetName,
				"account_id_column": idColumn,
				"file_name":         header.Filename,
			},
		})
}

// ExportSOQLAnalysis assesses the given accounts and streams the results as
// a workbook.
func (h *ExcelHandler) ExportSOQLAnalysis(c *gin.Context) {
	var req accountIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "No analysis data provided for export")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Minute)
	defer cancel()

	batch, err := h.assessments.AssessAccounts(ctx, req.AccountIDs)
	if err != nil {
		respondAppError(c, err)
		return
	}

	export, err := services.BuildAnalysisExport("SOQL Query Analysis", batch)
	if err != nil {
		respondAppError(c, err)
		return
	}
	sendWorkbook(c, export)
}

type singleAccountRequest struct {
	AccountID string `json:"account_id" binding:"required"`
}

// ExportSingleAccount assesses one account and streams the result as a
// workbook.
func (h *ExcelHandler) ExportSingleAccount(c *gin.Context) {
	var req singleAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "No account data provided for export")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	assessment, err := h.assessments.AssessAccount(ctx, req.AccountID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	export, err := services.BuildAccountExport(assessment)
	if err != nil {
		respondAppError(c, err)
		return
	}
	sendWorkbook(c, export)
}

type excelAnalysisRequest struct {
	AccountIDs      []string            `json:"account_ids" binding:"required"`
	OriginalHeaders []string            `json:"original_headers" binding:"required"`
	OriginalData    []map[string]string `json:"original_data" binding:"required"`
	AccountIDColumn string              `json:"account_id_column" binding:"required"`
}

// ExportExcelAnalysis assesses the given accounts and streams a workbook
// that merges the caller's original rows with the analysis columns.
func (h *ExcelHandler) ExportExcelAnalysis(c *gin.Context) {
	var req excelAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "No analysis data or original Excel data provided for export")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Minute)
	defer cancel()

	batch, err := h.assessments.AssessAccounts(ctx, req.AccountIDs)
	if err != nil {
		respondAppError(c, err)
		return
	}

	export, err := services.BuildMergedExport("Excel Analysis Results",
		req.OriginalHeaders, req.OriginalData, req.AccountIDColumn, batch)
	if err != nil {
		respondAppError(c, err)
		return
	}
	sendWorkbook(c, export)
}

func sendWorkbook(c *gin.Context, export *excel.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, xlsxContentType, export.Content)
}
