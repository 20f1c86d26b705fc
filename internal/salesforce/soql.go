package salesforce

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/errors"
)

// Caller-supplied queries are read-only by contract. Anything that could
// mutate or administer the store is rejected outright.
var dangerousKeywords = []string{
	"DELETE", "UPDATE", "INSERT", "UPSERT", "MERGE", "DROP", "CREATE", "ALTER", "TRUNCATE", "EXEC", "EXECUTE",
}

var (
	selectClauseRe = regexp.MustCompile(`(?is)^\s*SELECT\s+(.+?)\s+FROM\s+(\w+)`)
	limitClauseRe  = regexp.MustCompile(`(?i)\bLIMIT\s+(\d+)\b`)
)

// ValidateIDQuery checks that a caller-supplied SOQL query is a read-only
// SELECT of Account IDs and nothing else.
func ValidateIDQuery(soql string) error {
	trimmed := strings.TrimSpace(soql)
	if trimmed == "" {
		return errors.ValidationError("SOQL query cannot be empty", nil)
	}

	matches := selectClauseRe.FindStringSubmatch(trimmed)
	if matches == nil {
		return errors.ValidationError("query must be of the form SELECT Id FROM Account", nil)
	}

	selectList := strings.TrimSpace(matches[1])
	if !strings.EqualFold(selectList, "Id") {
		return errors.ValidationError(
			fmt.Sprintf("query must select only the Id field, got %q", selectList), nil)
	}

	object := matches[2]
	if !strings.EqualFold(object, "Account") {
		return errors.ValidationError(
			fmt.Sprintf("query must select from the Account object, got %q", object), nil)
	}

	upper := strings.ToUpper(trimmed)
	for _, keyword := range dangerousKeywords {
		if regexp.MustCompile(`\b` + keyword + `\b`).MatchString(upper) {
			return errors.ValidationError(
				fmt.Sprintf("query contains forbidden keyword %q", keyword), nil)
		}
	}

	return nil
}

// ExtractLimit returns the LIMIT value in a query, or nil when absent.
func ExtractLimit(soql string) *int {
	matches := limitClauseRe.FindStringSubmatch(soql)
	if matches == nil {
		return nil
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil
	}
	return &n
}

// EffectiveLimit resolves the query's own LIMIT against a caller cap.
// Nil on both sides means unlimited; otherwise the smaller bound wins.
func EffectiveLimit(queryLimit, callerMax *int) *int {
	switch {
	case queryLimit == nil:
		return callerMax
	case callerMax == nil:
		return queryLimit
	case *queryLimit < *callerMax:
		return queryLimit
	default:
		return callerMax
	}
}

// BuildIDQuery rewrites a validated ID query so its LIMIT clause reflects
// the effective limit. A query with no bound on either side is returned
// unchanged.
func BuildIDQuery(soql string, callerMax *int) (string, error) {
	trimmed := strings.TrimSpace(soql)
	effective := EffectiveLimit(ExtractLimit(trimmed), callerMax)
	if effective == nil {
		return trimmed, nil
	}
	if *effective <= 0 {
		return "", errors.ValidationError("limit must be a positive integer", nil)
	}

	clause := fmt.Sprintf("LIMIT %d", *effective)
	if limitClauseRe.MatchString(trimmed) {
		return limitClauseRe.ReplaceAllString(trimmed, clause), nil
	}
	return trimmed + " " + clause, nil
}
