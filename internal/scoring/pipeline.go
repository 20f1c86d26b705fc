package scoring

import (
	"context"
	"fmt"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/logger"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/models"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/sfid"
)

// ShellFetcher resolves a shell account from the record store. A nil account
// with a nil error means the record does not exist.
type ShellFetcher interface {
	FetchShell(ctx context.Context, id string) (*models.Account, error)
}

// Judge is the external AI judgment collaborator. It consumes the assembled
// flag payload and returns a confidence verdict; it never sees engine
// internals beyond the payload.
type Judge interface {
	Assess(ctx context.Context, input JudgmentInput) (*Judgment, error)
}

// Judgment is the validated response of the AI judgment collaborator.
type Judgment struct {
	Success            bool     `json:"success"`
	ConfidenceScore    int      `json:"confidence_score"`
	ExplanationBullets []string `json:"explanation_bullets"`
	Error              string   `json:"error,omitempty"`
}

// FlagPayload is the structured flag set handed downstream. The shell-side
// flags are present only when a shell relationship exists and the shell
// record could be retrieved.
type FlagPayload struct {
	BadDomain              DomainCheck        `json:"Bad_Domain"`
	HasShell               bool               `json:"Has_Shell"`
	CustomerConsistency    *ConsistencyResult `json:"Customer_Consistency,omitempty"`
	CustomerShellCoherence *ConsistencyResult `json:"Customer_Shell_Coherence,omitempty"`
	AddressConsistency     *AddressCheck      `json:"Address_Consistency,omitempty"`
}

// Assessment is the full outcome of one pipeline run for one account.
type Assessment struct {
	Account *models.Account `json:"account"`
	Shell   *models.Account `json:"shell_account,omitempty"`
	Flags   FlagPayload     `json:"flags"`
	AI      *Judgment       `json:"ai_assessment,omitempty"`
}

// AccountSummary is the field subset of one account that accompanies the
// flags into the judgment call.
type AccountSummary struct {
	Name             string `json:"Name"`
	ParentID         string `json:"ParentId,omitempty"`
	ParentName       string `json:"Parent_Name,omitempty"`
	Website          string `json:"Website,omitempty"`
	BillingAddress   string `json:"Billing_Address,omitempty"`
	ZICompanyName    string `json:"ZI_Company_Name__c,omitempty"`
	ZIWebsite        string `json:"ZI_Website__c,omitempty"`
	ZIBillingAddress string `json:"ZI_Billing_Address,omitempty"`
}

// JudgmentInput is everything the judgment collaborator receives.
type JudgmentInput struct {
	Customer AccountSummary  `json:"customer"`
	Parent   *AccountSummary `json:"parent,omitempty"`
	Flags    FlagPayload     `json:"flags"`
}

// Pipeline runs the assessment state machine for one account:
//
//	bad-domain check -> (stop if bad) -> shell check -> consistency scoring
//	-> shell coherence scoring (if a shell was resolved) -> judgment.
//
// Collaborator failures degrade the affected stage and never abort the run.
type Pipeline struct {
	engine *Engine
	shells ShellFetcher
	judge  Judge
	log    logger.Logger
}

// NewPipeline wires the scoring engine to its two collaborators. Either
// collaborator may be nil: a nil ShellFetcher skips shell resolution, a nil
// Judge skips the AI judgment stage.
func NewPipeline(engine *Engine, shells ShellFetcher, judge Judge, log logger.Logger) *Pipeline {
	return &Pipeline{engine: engine, shells: shells, judge: judge, log: log}
}

// Run assesses a single account. It always terminates with a well-formed
// Assessment; missing data and collaborator failures surface as explanation
// text and zero scores, never as errors.
func (p *Pipeline) Run(ctx context.Context, account *models.Account) *Assessment {
	result := &Assessment{Account: account}

	result.Flags.BadDomain = p.engine.BadDomain(account)
	if result.Flags.BadDomain.Bad {
		// Terminal: the judgment step is skipped entirely.
		return result
	}

	// A record whose parent points back at itself has no shell.
	result.Flags.HasShell = account.ParentID != "" &&
		!sfid.SameEntity(account.ID, account.ParentID)

	consistency := p.engine.CustomerConsistency(account)
	result.Flags.CustomerConsistency = &consistency

	if result.Flags.HasShell {
		result.Shell = p.fetchShell(ctx, account.ParentID)
		if result.Shell != nil {
			coherence := p.engine.ShellCoherence(account, result.Shell)
			result.Flags.CustomerShellCoherence = &coherence

			address := p.engine.AddressConsistency(account, result.Shell)
			result.Flags.AddressConsistency = &address
		}
	}

	result.AI = p.assess(ctx, result)

	return result
}

func (p *Pipeline) fetchShell(ctx context.Context, parentID string) *models.Account {
	if p.shells == nil {
		return nil
	}

	shell, err := p.shells.FetchShell(ctx, parentID)
	if err != nil {
		p.log.Warn("shell account lookup failed", "parent_id", parentID, "error", err)
		return nil
	}
	return shell
}

// assess calls the judgment collaborator, converting any failure into an
// explicit zero-confidence verdict so one flaky call cannot sink a batch.
func (p *Pipeline) assess(ctx context.Context, result *Assessment) *Judgment {
	if p.judge == nil {
		return nil
	}

	judgment, err := p.judge.Assess(ctx, BuildJudgmentInput(result))
	if err != nil {
		p.log.Error("ai judgment call failed", err, "account_id", result.Account.ID)
		return &Judgment{
			Success: false,
			Error:   err.Error(),
			ExplanationBullets: []string{
				fmt.Sprintf("❌ Error: %s", err),
				"⚠️ Using computed scores only due to AI service error",
				"✅ Basic relationship checks still performed",
			},
		}
	}

	judgment.Success = true
	return judgment
}

// BuildJudgmentInput assembles the collaborator payload from a scored
// assessment: the customer field subset, the parent subset when a shell was
// resolved, and the flags.
func BuildJudgmentInput(result *Assessment) JudgmentInput {
	account := result.Account
	input := JudgmentInput{
		Customer: AccountSummary{
			Name:             account.Name,
			ParentID:         account.ParentID,
			ParentName:       account.ParentName(),
			Website:          account.Website,
			BillingAddress:   JoinAddress(account.BillingState, account.BillingCountry, account.BillingPostalCode),
			ZICompanyName:    account.ZICompanyName,
			ZIWebsite:        account.ZIWebsite,
			ZIBillingAddress: JoinAddress(account.ZIState, account.ZICountry, account.ZIPostalCode),
		},
		Flags: result.Flags,
	}

	if result.Flags.HasShell && result.Shell != nil {
		shell := result.Shell
		input.Parent = &AccountSummary{
			Name:             shell.Name,
			Website:          shell.Website,
			BillingAddress:   JoinAddress(shell.BillingState, shell.BillingCountry, shell.BillingPostalCode),
			ZICompanyName:    shell.ZICompanyName,
			ZIWebsite:        shell.ZIWebsite,
			ZIBillingAddress: JoinAddress(shell.ZIState, shell.ZICountry, shell.ZIPostalCode),
		}
	}

	return input
}
