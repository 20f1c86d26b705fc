package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/models"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/scoring"
)

func sampleBatch() *BatchResult {
	consistency := scoring.ConsistencyResult{Score: 92.5}
	return &BatchResult{
		Total: 1,
		Assessments: []*scoring.Assessment{{
			Account: &models.Account{
				ID:       "001xx000003DGg2AAG",
				Name:     "Acme",
				ParentID: "001xx000003DGg3AAG",
			},
			Flags: scoring.FlagPayload{
				HasShell:            true,
				CustomerConsistency: &consistency,
			},
			AI: &scoring.Judgment{
				Success:            true,
				ConfidenceScore:    80,
				ExplanationBullets: []string{"✅ Names align"},
			},
		}},
	}
}

func TestBuildAnalysisExport(t *testing.T) {
	export, err := BuildAnalysisExport("SOQL Analysis", sampleBatch())
	require.NoError(t, err)
	assert.Contains(t, export.Filename, "soql_analysis_")

	f, err := excelize.OpenReader(bytes.NewReader(export.Content))
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellValue("Data", "A5")
	require.NoError(t, err)
	assert.Equal(t, "001xx000003DGg2AAG", id)

	confidence, err := f.GetCellValue("Data", "I5")
	require.NoError(t, err)
	assert.Equal(t, "80", confidence)
}

func TestBuildMergedExportAppendsAnalysisColumns(t *testing.T) {
	export, err := BuildMergedExport("Excel Analysis",
		[]string{"Account ID", "Owner"},
		[]map[string]string{
			{"Account ID": "001xx000003DGg2", "Owner": "alice"}, // 15-char form still matches
			{"Account ID": "001xx000003DGg9AAG", "Owner": "bob"},
		},
		"Account ID", sampleBatch())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(export.Content))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Data", "C4")
	require.NoError(t, err)
	assert.Equal(t, "Bad Domain", header)

	matched, err := f.GetCellValue("Data", "H5")
	require.NoError(t, err)
	assert.Equal(t, "80", matched)

	unmatched, err := f.GetCellValue("Data", "H6")
	require.NoError(t, err)
	assert.Equal(t, "", unmatched)
}
