package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/baddomain"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/models"
)

func newEngine(domains ...string) *Engine {
	return NewEngine(baddomain.NewSet(domains...))
}

func TestCustomerConsistencyWebsitePreferred(t *testing.T) {
	engine := newEngine()

	result := engine.CustomerConsistency(&models.Account{
		Name:    "RingCentral",
		Website: "https://www.ringcentral.com",
		// Enrichment data is present but must not be consulted.
		ZICompanyName: "Some Other Company",
	})

	assert.InDelta(t, 100.0, result.Score, 0.01)
	require.NotEmpty(t, result.Explanation)
	assert.Contains(t, result.Explanation[0], "Using Website:")
}

func TestCustomerConsistencyPersonalNameInDomain(t *testing.T) {
	engine := newEngine()

	// "carlos reyes" against "carlosreyeszumba" derived from the domain.
	result := engine.CustomerConsistency(&models.Account{
		Name:    "Carlos Reyes",
		Website: "carlosreyes.zumba.com",
	})

	assert.InDelta(t, 78.6, result.Score, 0.1)
}

func TestCustomerConsistencyEnrichmentFallbackTakesMax(t *testing.T) {
	engine := newEngine()

	result := engine.CustomerConsistency(&models.Account{
		Name:          "Acme",
		ZICompanyName: "Acme",
		ZIWebsite:     "unrelatedvendor.com",
	})

	// The strong name signal wins; the weak website signal cannot drag
	// the score down.
	assert.InDelta(t, 100.0, result.Score, 0.01)
	assert.Contains(t, result.Explanation[0], "enrichment fields")
}

func TestCustomerConsistencyNoData(t *testing.T) {
	engine := newEngine()

	result := engine.CustomerConsistency(&models.Account{Name: "Acme"})
	assert.Zero(t, result.Score)
	assert.Equal(t, []string{"No website or enrichment data available for comparison"}, result.Explanation)

	result = engine.CustomerConsistency(&models.Account{})
	assert.Zero(t, result.Score)
	assert.Equal(t, []string{"No company name provided"}, result.Explanation)
}

func TestShellCoherenceIdenticalAccounts(t *testing.T) {
	engine := newEngine()

	customer := &models.Account{Name: "RingCentral", Website: "ringcentral.com"}
	shell := &models.Account{Name: "RingCentral", Website: "ringcentral.com"}

	result := engine.ShellCoherence(customer, shell)
	assert.InDelta(t, 100.0, result.Score, 0.01)
	assert.Len(t, result.Explanation, 4)
}

func TestShellCoherenceDirectOutweighsCross(t *testing.T) {
	engine := newEngine()

	// One perfect direct comparison (name vs name) and one imperfect
	// cross comparison (customer name vs shell website domain).
	customer := &models.Account{Name: "acme"}
	shell := &models.Account{Name: "acme", Website: "bcme.com"}

	result := engine.ShellCoherence(customer, shell)

	// direct mean 1.0 at 70%, cross mean 0.75 at 30%.
	assert.InDelta(t, 92.5, result.Score, 0.1)
}

func TestShellCoherenceSingleGroup(t *testing.T) {
	engine := newEngine()

	// Only a cross comparison is possible, so it carries full weight.
	customer := &models.Account{Name: "acme"}
	shell := &models.Account{Website: "acme.com"}

	result := engine.ShellCoherence(customer, shell)
	assert.InDelta(t, 100.0, result.Score, 0.01)
}

func TestShellCoherenceFallsBackToEnrichment(t *testing.T) {
	engine := newEngine()

	customer := &models.Account{ZICompanyName: "Acme", ZIWebsite: "acme.com"}
	shell := &models.Account{Name: "Acme", Website: "acme.com"}

	result := engine.ShellCoherence(customer, shell)
	assert.InDelta(t, 100.0, result.Score, 0.01)
	assert.Contains(t, result.Explanation[0], "ZI_Company_Name__c")
}

func TestShellCoherenceNoData(t *testing.T) {
	engine := newEngine()

	result := engine.ShellCoherence(&models.Account{}, &models.Account{})
	assert.Zero(t, result.Score)
	assert.Equal(t, []string{"Insufficient data for shell coherence comparison"}, result.Explanation)

	result = engine.ShellCoherence(&models.Account{Name: "Acme"}, nil)
	assert.Equal(t, []string{"No shell account data available"}, result.Explanation)
}

func TestAddressConsistency(t *testing.T) {
	engine := newEngine()

	customer := &models.Account{
		BillingState: "CA", BillingCountry: "US", BillingPostalCode: "94105",
	}
	shell := &models.Account{
		ZIState: "CA", ZICountry: "US", ZIPostalCode: "94105",
	}

	result := engine.AddressConsistency(customer, shell)
	assert.True(t, result.Consistent)
	require.NotEmpty(t, result.Explanation)
	assert.Contains(t, result.Explanation[0], "CA, US, 94105")
}

func TestAddressConsistencyPostalMismatch(t *testing.T) {
	engine := newEngine()

	customer := &models.Account{
		BillingState: "CA", BillingCountry: "US", BillingPostalCode: "94105",
	}
	shell := &models.Account{
		ZIState: "CA", ZICountry: "US", ZIPostalCode: "90210",
	}

	result := engine.AddressConsistency(customer, shell)
	assert.False(t, result.Consistent)
}

func TestAddressConsistencyCaseInsensitive(t *testing.T) {
	engine := newEngine()

	customer := &models.Account{BillingState: "ca", BillingCountry: "us"}
	shell := &models.Account{ZIState: "CA", ZICountry: "US"}

	result := engine.AddressConsistency(customer, shell)
	assert.True(t, result.Consistent)
}

func TestAddressConsistencySourcePrecedence(t *testing.T) {
	engine := newEngine()

	// Customer falls back to enriched fields, shell falls back to billing.
	customer := &models.Account{ZIState: "NY", ZICountry: "US"}
	shell := &models.Account{BillingState: "NY", BillingCountry: "US"}

	result := engine.AddressConsistency(customer, shell)
	assert.True(t, result.Consistent)
	assert.Contains(t, result.Explanation[0], "customer enriched fields")
	assert.Contains(t, result.Explanation[0], "shell billing fields")
}

func TestAddressConsistencyMissingData(t *testing.T) {
	engine := newEngine()

	result := engine.AddressConsistency(&models.Account{}, &models.Account{})
	assert.False(t, result.Consistent)
	assert.Equal(t, []string{"No address data available for comparison"}, result.Explanation)
}

func TestBadDomainEmailHit(t *testing.T) {
	engine := newEngine("gmail.com")

	result := engine.BadDomain(&models.Account{ContactEmail: "someone@gmail.com"})
	assert.True(t, result.Bad)
	assert.Contains(t, result.Explanation[0], "matches bad domain list")
}

func TestBadDomainRepairedBeforeLookup(t *testing.T) {
	engine := newEngine("gmail.com")

	// Mangled TLD is repaired to gmail.com before the lookup.
	result := engine.BadDomain(&models.Account{ContactEmail: "someone@gmail.comno"})
	assert.True(t, result.Bad)
}

func TestBadDomainBothSignals(t *testing.T) {
	engine := newEngine("gmail.com", "yahoo.com")

	result := engine.BadDomain(&models.Account{
		ContactEmail: "someone@gmail.com",
		Website:      "http://yahoo.com",
	})
	assert.True(t, result.Bad)
	assert.Contains(t, result.Explanation[0], "both match bad domain list")
}

func TestBadDomainClean(t *testing.T) {
	engine := newEngine("gmail.com")

	result := engine.BadDomain(&models.Account{
		ContactEmail: "someone@ringcentral.com",
		Website:      "ringcentral.com",
	})
	assert.False(t, result.Bad)
	assert.Equal(t, []string{"No bad domains detected"}, result.Explanation)
}

func TestJoinAddress(t *testing.T) {
	assert.Equal(t, "CA, US, 94105", JoinAddress("CA", "US", "94105"))
	assert.Equal(t, "US", JoinAddress("", "US", ""))
	assert.Equal(t, "", JoinAddress("", "", ""))
	assert.Equal(t, "CA, 94105", JoinAddress(" CA ", "", "94105"))
}
