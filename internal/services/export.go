package services

import (
	"fmt"
	"strings"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/excel"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/scoring"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/sfid"
)

var analysisHeaders = []string{
	"Account ID", "Account Name", "Parent ID",
	"Bad Domain", "Has Shell",
	"Customer Consistency", "Shell Coherence", "Address Consistent",
	"AI Confidence", "AI Explanation",
}

// BuildAnalysisExport renders a batch of assessments as a styled workbook.
func BuildAnalysisExport(title string, batch *BatchResult) (*excel.Export, error) {
	rows := make([][]interface{}, 0, len(batch.Assessments))
	for _, assessment := range batch.Assessments {
		rows = append(rows, analysisRow(assessment))
	}
	return excel.BuildExport(title, "soql_analysis", analysisHeaders, rows)
}

// BuildAccountExport renders a single assessment as a workbook.
func BuildAccountExport(assessment *scoring.Assessment) (*excel.Export, error) {
	return excel.BuildExport(
		"Account Assessment: "+assessment.Account.Name,
		"account_"+assessment.Account.ID,
		analysisHeaders,
		[][]interface{}{analysisRow(assessment)},
	)
}

// BuildMergedExport renders the caller's original spreadsheet rows with the
// analysis columns appended. Rows are matched to assessments through the
// identifier column they were extracted from.
func BuildMergedExport(title string, originalHeaders []string, originalRows []map[string]string,
	idColumn string, batch *BatchResult) (*excel.Export, error) {

	byID := make(map[string]*scoring.Assessment, len(batch.Assessments))
	for _, assessment := range batch.Assessments {
		byID[sfid.To15(assessment.Account.ID)] = assessment
	}

	headers := append(append([]string{}, originalHeaders...), analysisHeaders[3:]...)

	rows := make([][]interface{}, 0, len(originalRows))
	for _, original := range originalRows {
		row := make([]interface{}, 0, len(headers))
		for _, header := range originalHeaders {
			row = append(row, original[header])
		}

		id := strings.TrimSpace(original[idColumn])
		if assessment, ok := byID[sfid.To15(id)]; ok {
			row = append(row, analysisRow(assessment)[3:]...)
		} else {
			for range analysisHeaders[3:] {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return excel.BuildExport(title, "excel_analysis", headers, rows)
}

// analysisRow flattens one assessment into the export column order.
func analysisRow(a *scoring.Assessment) []interface{} {
	row := []interface{}{
		a.Account.ID,
		a.Account.Name,
		a.Account.ParentID,
		a.Flags.BadDomain.Bad,
		a.Flags.HasShell,
	}

	if a.Flags.CustomerConsistency != nil {
		row = append(row, a.Flags.CustomerConsistency.Score)
	} else {
		row = append(row, "")
	}
	if a.Flags.CustomerShellCoherence != nil {
		row = append(row, a.Flags.CustomerShellCoherence.Score)
	} else {
		row = append(row, "")
	}
	if a.Flags.AddressConsistency != nil {
		row = append(row, a.Flags.AddressConsistency.Consistent)
	} else {
		row = append(row, "")
	}

	if a.AI != nil {
		row = append(row,
			a.AI.ConfidenceScore,
			strings.Join(a.AI.ExplanationBullets, "\n"))
	} else {
		reason := ""
		if a.Flags.BadDomain.Bad {
			reason = fmt.Sprintf("Skipped: %s", strings.Join(a.Flags.BadDomain.Explanation, "; "))
		}
		row = append(row, "", reason)
	}

	return row
}
