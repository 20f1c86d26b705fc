// Package services contains the application's business logic, composed from
// the record store client, the scoring pipeline, and the AI judge.
package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/errors"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/logger"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/models"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/salesforce"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/scoring"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/sfid"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

// AccountStore is the record-store surface the assessment service needs.
type AccountStore interface {
	AccountByID(ctx context.Context, id string) (*models.Account, error)
	AccountsByIDs(ctx context.Context, ids []string) ([]models.Account, error)
	QueryAccounts(ctx context.Context, where string, limit int) ([]models.Account, error)
	AccountIDsFromQuery(ctx context.Context, soql string, maxIDs *int) (*salesforce.IDQueryResult, error)
	ValidateAccountIDs(ctx context.Context, ids []string) (*salesforce.IDValidation, error)
}

// AssessmentService defines the account assessment business logic.
type AssessmentService interface {
	AccountByID(ctx context.Context, id string) (*models.Account, error)
	AssessAccount(ctx context.Context, id string) (*scoring.Assessment, error)
	AssessAccounts(ctx context.Context, ids []string) (*BatchResult, error)
	QueryAccounts(ctx context.Context, where string, limit int) ([]models.Account, error)
	AnalyzeQuery(ctx context.Context, soql string, maxIDs *int) (*QueryAnalysis, error)
	AccountsData(ctx context.Context, ids []string) ([]models.Account, error)
	ValidateAccountIDs(ctx context.Context, ids []string) (*salesforce.IDValidation, error)
}

// BatchFailure records one account that could not be assessed.
type BatchFailure struct {
	AccountID string `json:"account_id"`
	Error     string `json:"error"`
}

// BatchResult is the outcome of assessing a list of accounts. Assessments
// appear in the order the identifiers were supplied.
type BatchResult struct {
	Assessments []*scoring.Assessment `json:"assessments"`
	Total       int                   `json:"total"`
	Failures    []BatchFailure        `json:"failures,omitempty"`
}

// QueryAnalysis is a batch assessment driven by a caller-supplied ID query.
type QueryAnalysis struct {
	FinalQuery string       `json:"final_query"`
	TotalFound int          `json:"total_found"`
	Batch      *BatchResult `json:"batch"`
}

type assessmentService struct {
	store    AccountStore
	pipeline *scoring.Pipeline
	workers  int
	log      logger.Logger
}

// NewAssessmentService wires the assessment pipeline to the record store.
func NewAssessmentService(store AccountStore, pipeline *scoring.Pipeline, cfg *config.Config, log logger.Logger) AssessmentService {
	workers := cfg.BatchWorkers
	if workers < 1 {
		workers = 1
	}
	return &assessmentService{
		store:    store,
		pipeline: pipeline,
		workers:  workers,
		log:      log,
	}
}

func (s *assessmentService) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	return s.store.AccountByID(ctx, id)
}

func (s *assessmentService) QueryAccounts(ctx context.Context, where string, limit int) ([]models.Account, error) {
	return s.store.QueryAccounts(ctx, where, limit)
}

func (s *assessmentService) AccountsData(ctx context.Context, ids []string) ([]models.Account, error) {
	if len(ids) == 0 {
		return nil, errors.InvalidInput("no account IDs provided", nil)
	}
	for _, id := range ids {
		if err := salesforce.ValidateAccountIDFormat(strings.TrimSpace(id)); err != nil {
			return nil, err
		}
	}
	return s.store.AccountsByIDs(ctx, ids)
}

func (s *assessmentService) ValidateAccountIDs(ctx context.Context, ids []string) (*salesforce.IDValidation, error) {
	if len(ids) == 0 {
		return nil, errors.InvalidInput("no account IDs provided", nil)
	}
	return s.store.ValidateAccountIDs(ctx, ids)
}

// AssessAccount runs the full pipeline for a single account.
func (s *assessmentService) AssessAccount(ctx context.Context, id string) (*scoring.Assessment, error) {
	account, err := s.store.AccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, account), nil
}

// AssessAccounts fetches and assesses a batch of accounts, running the
// per-account pipelines concurrently. One account's failure never blocks
// the rest of the batch.
func (s *assessmentService) AssessAccounts(ctx context.Context, ids []string) (*BatchResult, error) {
	if len(ids) == 0 {
		return nil, errors.InvalidInput("no account IDs provided", nil)
	}

	accounts, err := s.store.AccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Total: len(ids)}

	// Supplied identifiers may be 15 or 18 characters; key on the short
	// form so both match what the store returned.
	found := make(map[string]*models.Account, len(accounts))
	for i := range accounts {
		found[sfid.To15(accounts[i].ID)] = &accounts[i]
	}
	ordered := make([]*models.Account, 0, len(accounts))
	for _, id := range ids {
		account, ok := found[sfid.To15(strings.TrimSpace(id))]
		if !ok {
			result.Failures = append(result.Failures, BatchFailure{
				AccountID: strings.TrimSpace(id),
				Error:     "account not found",
			})
			continue
		}
		ordered = append(ordered, account)
	}

	assessments := make([]*scoring.Assessment, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, account := range ordered {
		i, account := i, account
		g.Go(func() error {
			assessments[i] = s.pipeline.Run(gctx, account)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch assessment: %w", err)
	}

	result.Assessments = assessments
	s.log.Info("batch assessment complete",
		"requested", len(ids), "assessed", len(assessments), "failed", len(result.Failures))

	return result, nil
}

// AnalyzeQuery resolves a caller-supplied ID query, then assesses every
// account it returned.
func (s *assessmentService) AnalyzeQuery(ctx context.Context, soql string, maxIDs *int) (*QueryAnalysis, error) {
	idResult, err := s.store.AccountIDsFromQuery(ctx, soql, maxIDs)
	if err != nil {
		return nil, err
	}
	if len(idResult.AccountIDs) == 0 {
		return &QueryAnalysis{
			FinalQuery: idResult.FinalQuery,
			TotalFound: 0,
			Batch:      &BatchResult{},
		}, nil
	}

	batch, err := s.AssessAccounts(ctx, idResult.AccountIDs)
	if err != nil {
		return nil, err
	}

	return &QueryAnalysis{
		FinalQuery: idResult.FinalQuery,
		TotalFound: idResult.TotalFound,
		Batch:      batch,
	}, nil
}
