package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/baddomain"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/logger"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/models"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/salesforce"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/scoring"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

type stubStore struct {
	accounts map[string]*models.Account
	idResult *salesforce.IDQueryResult
}

func (s *stubStore) AccountByID(_ context.Context, id string) (*models.Account, error) {
	if account, ok := s.accounts[id]; ok {
		return account, nil
	}
	return nil, assert.AnError
}

func (s *stubStore) AccountsByIDs(_ context.Context, ids []string) ([]models.Account, error) {
	var out []models.Account
	for _, id := range ids {
		if account, ok := s.accounts[id]; ok {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (s *stubStore) QueryAccounts(_ context.Context, _ string, _ int) ([]models.Account, error) {
	var out []models.Account
	for _, account := range s.accounts {
		out = append(out, *account)
	}
	return out, nil
}

func (s *stubStore) AccountIDsFromQuery(_ context.Context, _ string, _ *int) (*salesforce.IDQueryResult, error) {
	return s.idResult, nil
}

func (s *stubStore) ValidateAccountIDs(_ context.Context, ids []string) (*salesforce.IDValidation, error) {
	result := &salesforce.IDValidation{}
	for _, id := range ids {
		if _, ok := s.accounts[id]; ok {
			result.ValidAccountIDs = append(result.ValidAccountIDs, id)
		} else {
			result.InvalidAccountIDs = append(result.InvalidAccountIDs, id)
		}
	}
	return result, nil
}

func newTestService(store AccountStore) AssessmentService {
	pipeline := scoring.NewPipeline(scoring.NewEngine(baddomain.NewSet()), nil, nil, logger.NewNop())
	return NewAssessmentService(store, pipeline, &config.Config{BatchWorkers: 3}, logger.NewNop())
}

func TestAssessAccountsKeepsInputOrder(t *testing.T) {
	store := &stubStore{accounts: map[string]*models.Account{
		"001xx000003DGg2AAG": {ID: "001xx000003DGg2AAG", Name: "First"},
		"001xx000003DGg3AAG": {ID: "001xx000003DGg3AAG", Name: "Second"},
	}}
	service := newTestService(store)

	batch, err := service.AssessAccounts(context.Background(),
		[]string{"001xx000003DGg3AAG", "001xx000003DGg2AAG"})
	require.NoError(t, err)
	require.Len(t, batch.Assessments, 2)
	assert.Equal(t, "Second", batch.Assessments[0].Account.Name)
	assert.Equal(t, "First", batch.Assessments[1].Account.Name)
	assert.Equal(t, 2, batch.Total)
	assert.Empty(t, batch.Failures)
}

func TestAssessAccountsReportsMissing(t *testing.T) {
	store := &stubStore{accounts: map[string]*models.Account{
		"001xx000003DGg2AAG": {ID: "001xx000003DGg2AAG", Name: "Only"},
	}}
	service := newTestService(store)

	batch, err := service.AssessAccounts(context.Background(),
		[]string{"001xx000003DGg2AAG", "001xx000003DGg9AAG"})
	require.NoError(t, err)
	assert.Len(t, batch.Assessments, 1)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "001xx000003DGg9AAG", batch.Failures[0].AccountID)
}

func TestAssessAccountsRejectsEmptyInput(t *testing.T) {
	service := newTestService(&stubStore{})
	_, err := service.AssessAccounts(context.Background(), nil)
	assert.Error(t, err)
}

func TestAnalyzeQuery(t *testing.T) {
	store := &stubStore{
		accounts: map[string]*models.Account{
			"001xx000003DGg2AAG": {ID: "001xx000003DGg2AAG", Name: "Acme"},
		},
		idResult: &salesforce.IDQueryResult{
			AccountIDs: []string{"001xx000003DGg2AAG"},
			TotalFound: 1,
			FinalQuery: "SELECT Id FROM Account LIMIT 1",
		},
	}
	service := newTestService(store)

	analysis, err := service.AnalyzeQuery(context.Background(), "SELECT Id FROM Account", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id FROM Account LIMIT 1", analysis.FinalQuery)
	assert.Equal(t, 1, analysis.TotalFound)
	require.Len(t, analysis.Batch.Assessments, 1)
}

func TestAnalyzeQueryEmptyResult(t *testing.T) {
	store := &stubStore{idResult: &salesforce.IDQueryResult{FinalQuery: "SELECT Id FROM Account"}}
	service := newTestService(store)

	analysis, err := service.AnalyzeQuery(context.Background(), "SELECT Id FROM Account", nil)
	require.NoError(t, err)
	assert.Zero(t, analysis.TotalFound)
	assert.Empty(t, analysis.Batch.Assessments)
}

func TestAccountsDataValidatesFormat(t *testing.T) {
	service := newTestService(&stubStore{})

	_, err := service.AccountsData(context.Background(), []string{"bogus"})
	assert.Error(t, err)

	_, err = service.AccountsData(context.Background(), nil)
	assert.Error(t, err)
}
