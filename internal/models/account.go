package models

// RelatedName carries the name of a related record the way the record store
// nests it in query results.
type RelatedName struct {
	Name string `json:"Name"`
}

// Account is a flat, read-only snapshot of the record fields the assessment
// engine consumes. Empty strings mean the field is not populated; the engine
// never mutates an Account, it only derives scores from one.
type Account struct {
	ID       string       `json:"Id"`
	Name     string       `json:"Name"`
	ParentID string       `json:"ParentId,omitempty"`
	Parent   *RelatedName `json:"Parent,omitempty"`
	Website  string       `json:"Website,omitempty"`

	BillingState      string `json:"BillingState,omitempty"`
	BillingCountry    string `json:"BillingCountry,omitempty"`
	BillingPostalCode string `json:"BillingPostalCode,omitempty"`

	// Enrichment-vendor mirrors. Lower trust than the native fields; used
	// as fallbacks when the native fields are empty.
	ZICompanyName string `json:"ZI_Company_Name__c,omitempty"`
	ZIWebsite     string `json:"ZI_Website__c,omitempty"`
	ZIState       string `json:"ZI_Company_State__c,omitempty"`
	ZICountry     string `json:"ZI_Company_Country__c,omitempty"`
	ZIPostalCode  string `json:"ZI_Company_Postal_Code__c,omitempty"`

	ContactEmail string       `json:"ContactMostFrequentEmail__c,omitempty"`
	RecordType   *RelatedName `json:"RecordType,omitempty"`
}

// ParentName returns the related parent record's name, if present.
func (a *Account) ParentName() string {
	if a.Parent == nil {
		return ""
	}
	return a.Parent.Name
}

// RecordTypeName returns the record type name, if present.
func (a *Account) RecordTypeName() string {
	if a.RecordType == nil {
		return ""
	}
	return a.RecordType.Name
}
