// Package scoring computes the deterministic relationship flags for a
// customer account: the bad-domain short-circuit, customer self-consistency,
// customer/shell coherence, and address consistency. Every scorer is a pure
// function of its inputs; results are produced fresh per call and never
// cached or mutated after return.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/baddomain"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/match"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/models"
)

// ConsistencyResult is a 0-100 confidence that two textual signals describe
// the same real-world entity, with the ordered explanation trail that
// produced it.
type ConsistencyResult struct {
	Score       float64  `json:"score"`
	Explanation []string `json:"explanation"`
}

// DomainCheck is the outcome of the bad-domain short-circuit.
type DomainCheck struct {
	Bad         bool     `json:"is_bad"`
	Explanation []string `json:"explanation"`
}

// AddressCheck is the outcome of the address-consistency comparison.
type AddressCheck struct {
	Consistent  bool     `json:"is_consistent"`
	Explanation []string `json:"explanation"`
}

// Engine evaluates the relationship flags. The bad-domain set is immutable
// after startup, so a single Engine is safe for concurrent use.
type Engine struct {
	badDomains *baddomain.Set
}

// NewEngine creates a scoring engine backed by the given bad-domain set.
func NewEngine(badDomains *baddomain.Set) *Engine {
	if badDomains == nil {
		badDomains = baddomain.NewSet()
	}
	return &Engine{badDomains: badDomains}
}

// CustomerConsistency measures how well an account's own fields hang
// together. The native website is preferred; without one, the enrichment
// fields are compared instead and the best single signal wins: one strong
// corroboration is enough, so the maximum is taken instead of the average.
func (e *Engine) CustomerConsistency(a *models.Account) ConsistencyResult {
	if a.Website != "" {
		score, explanation := nameWebsiteConsistency(a.Name, a.Website)
		return ConsistencyResult{
			Score:       round1(score),
			Explanation: []string{"Using Website: " + explanation},
		}
	}

	if a.Name == "" {
		return ConsistencyResult{Explanation: []string{"No company name provided"}}
	}

	var best float64
	explanations := []string{"Using enrichment fields (no native website)"}
	compared := false

	if a.ZICompanyName != "" {
		sim := match.Similarity(a.Name, a.ZICompanyName)
		best = math.Max(best, sim*100)
		compared = true
		explanations = append(explanations, fmt.Sprintf("Name vs ZI Company: %.2f", sim))
	}

	if a.ZIWebsite != "" {
		score, explanation := nameWebsiteConsistency(a.Name, a.ZIWebsite)
		best = math.Max(best, score)
		compared = true
		explanations = append(explanations, fmt.Sprintf("Name vs ZI Website: %.1f (%s)", score, explanation))
	}

	if !compared {
		return ConsistencyResult{Explanation: []string{"No website or enrichment data available for comparison"}}
	}

	return ConsistencyResult{Score: round1(best), Explanation: explanations}
}

// ShellCoherence measures how plausibly a customer account rolls up to its
// shell. Up to four comparisons are made; direct same-field comparisons
// (name vs name, domain vs domain) carry 70% of the weight and cross-field
// comparisons 30%, because same-field agreement is stronger evidence.
func (e *Engine) ShellCoherence(customer, shell *models.Account) ConsistencyResult {
	if shell == nil {
		return ConsistencyResult{Explanation: []string{"No shell account data available"}}
	}

	customerName, customerNameSrc := bestField(customer.Name, customer.ZICompanyName, "Name", "ZI_Company_Name__c")
	customerWebsite, customerSiteSrc := bestField(customer.Website, customer.ZIWebsite, "Website", "ZI_Website__c")
	shellName, shellNameSrc := bestField(shell.Name, shell.ZICompanyName, "Name", "ZI_Company_Name__c")
	shellWebsite, shellSiteSrc := bestField(shell.Website, shell.ZIWebsite, "Website", "ZI_Website__c")

	customerDomainName := match.NameFromDomain(match.DomainFromURL(customerWebsite))
	shellDomainName := match.NameFromDomain(match.DomainFromURL(shellWebsite))

	var direct, cross []float64
	var explanations []string

	if customerName != "" && shellName != "" {
		sim := match.Similarity(customerName, shellName)
		direct = append(direct, sim)
		explanations = append(explanations, fmt.Sprintf(
			"Name similarity (customer %s vs shell %s): %.1f", customerNameSrc, shellNameSrc, sim*100))
	}

	if customerDomainName != "" && shellDomainName != "" {
		sim := match.Similarity(customerDomainName, shellDomainName)
		direct = append(direct, sim)
		explanations = append(explanations, fmt.Sprintf(
			"Website similarity (customer %s vs shell %s): %.1f", customerSiteSrc, shellSiteSrc, sim*100))
	}

	if customerName != "" && shellDomainName != "" {
		sim := match.Similarity(customerName, shellDomainName)
		cross = append(cross, sim)
		explanations = append(explanations, fmt.Sprintf(
			"Customer name vs shell website: %.1f", sim*100))
	}

	if customerDomainName != "" && shellName != "" {
		sim := match.Similarity(shellName, customerDomainName)
		cross = append(cross, sim)
		explanations = append(explanations, fmt.Sprintf(
			"Customer website vs shell name: %.1f", sim*100))
	}

	if len(direct) == 0 && len(cross) == 0 {
		return ConsistencyResult{Explanation: []string{"Insufficient data for shell coherence comparison"}}
	}

	var final float64
	switch {
	case len(direct) > 0 && len(cross) > 0:
		final = mean(direct)*0.7 + mean(cross)*0.3
	case len(direct) > 0:
		final = mean(direct)
	default:
		final = mean(cross)
	}

	return ConsistencyResult{Score: round1(final * 100), Explanation: explanations}
}

// AddressConsistency compares the customer's address with the shell's.
//
// The precedence is deliberately asymmetric: the customer's own billing
// entry is the most trustworthy statement of where the customer is, while a
// shell's self-reported billing data goes stale and its vendor-enriched
// address is usually fresher. So the customer side prefers native billing
// fields and falls back to enriched ones, and the shell side does the
// opposite.
func (e *Engine) AddressConsistency(customer, shell *models.Account) AddressCheck {
	if shell == nil {
		return AddressCheck{Explanation: []string{"No shell account data available"}}
	}

	customerAddr, customerSrc := preferFirst(
		JoinAddress(customer.BillingState, customer.BillingCountry, customer.BillingPostalCode), "billing fields",
		JoinAddress(customer.ZIState, customer.ZICountry, customer.ZIPostalCode), "enriched fields",
	)
	shellAddr, shellSrc := preferFirst(
		JoinAddress(shell.ZIState, shell.ZICountry, shell.ZIPostalCode), "enriched fields",
		JoinAddress(shell.BillingState, shell.BillingCountry, shell.BillingPostalCode), "billing fields",
	)

	if customerAddr == "" || shellAddr == "" {
		return AddressCheck{Explanation: []string{"No address data available for comparison"}}
	}

	consistent := strings.EqualFold(customerAddr, shellAddr)
	verdict := "differ"
	if consistent {
		verdict = "match"
	}

	return AddressCheck{
		Consistent: consistent,
		Explanation: []string{fmt.Sprintf(
			"Addresses %s: customer %s '%s' vs shell %s '%s'",
			verdict, customerSrc, customerAddr, shellSrc, shellAddr)},
	}
}

// BadDomain checks the account's contact email and website against the
// known-bad domain list, repairing mangled domains first. A hit here is
// terminal for the whole assessment.
func (e *Engine) BadDomain(a *models.Account) DomainCheck {
	var matches []string

	if a.ContactEmail != "" {
		domain := e.badDomains.Repair(match.DomainFromEmail(a.ContactEmail))
		if domain != "" && e.badDomains.Contains(domain) {
			matches = append(matches, fmt.Sprintf(
				"Email domain '%s' from ContactMostFrequentEmail__c", domain))
		}
	}

	if a.Website != "" {
		domain := e.badDomains.Repair(match.DomainFromURL(a.Website))
		if domain != "" && e.badDomains.Contains(domain) {
			matches = append(matches, fmt.Sprintf("Website domain '%s' from Website", domain))
		}
	}

	switch len(matches) {
	case 0:
		return DomainCheck{Explanation: []string{"No bad domains detected"}}
	case 1:
		return DomainCheck{Bad: true, Explanation: []string{matches[0] + " matches bad domain list"}}
	default:
		return DomainCheck{Bad: true, Explanation: []string{
			strings.Join(matches, " and ") + " both match bad domain list"}}
	}
}

// nameWebsiteConsistency scores how well a company name matches the name
// derived from a website's registrable domain. Returns a 0-100 score and an
// explanation of what was compared.
func nameWebsiteConsistency(name, website string) (float64, string) {
	if name == "" {
		return 0, "No company name provided"
	}
	if website == "" {
		return 0, "No website provided"
	}

	domain := match.DomainFromURL(website)
	if domain == "" {
		return 0, fmt.Sprintf("Could not extract valid domain from website: %s", website)
	}

	domainName := match.NameFromDomain(domain)
	if domainName == "" {
		return 0, fmt.Sprintf("Could not extract company name from domain: %s", domain)
	}

	sim := match.Similarity(name, domainName)
	explanation := fmt.Sprintf("Comparing '%s' with domain '%s' from %s",
		match.Normalize(name), domainName, domain)

	return sim * 100, explanation
}

// JoinAddress joins the non-empty parts of an address with ", ". Returns ""
// when every part is empty.
func JoinAddress(state, country, postalCode string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{state, country, postalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// bestField returns the primary value when populated, otherwise the
// fallback, along with the label of whichever source was used.
func bestField(primary, fallback, primaryLabel, fallbackLabel string) (string, string) {
	if v := strings.TrimSpace(primary); v != "" {
		return v, primaryLabel
	}
	if v := strings.TrimSpace(fallback); v != "" {
		return v, fallbackLabel
	}
	return "", primaryLabel
}

func preferFirst(first, firstLabel, second, secondLabel string) (string, string) {
	if first != "" {
		return first, firstLabel
	}
	return second, secondLabel
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
