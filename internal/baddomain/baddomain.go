// Package baddomain holds the reference set of known-bad domains and the
// repair logic that maps operator-mangled domain strings back onto it.
//
// The set is built once at process start and never mutated afterwards, so it
// is safe to share across concurrent scoring calls without locking.
package baddomain

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

const headerColumn = "bad_domains"

// TLD tokens that are never valid and signal a mangled domain. Short valid
// TLDs like .io or .xyz must never be rewritten, so the fallback beyond this
// list only fires for alphanumeric tokens longer than 4 characters.
var invalidTLDs = map[string]bool{
	"comno":  true,
	"comxyz": true,
	"com123": true,
	"netno":  true,
	"orgno":  true,
	"comabc": true,
}

var repairTLDs = []string{"com", "net", "org"}

// Set is an immutable collection of known-bad domains.
type Set struct {
	domains map[string]bool
}

// NewSet builds a Set from a list of domains. Intended for tests and for
// callers that source the list somewhere other than the reference CSV.
func NewSet(domains ...string) *Set {
	s := &Set{domains: make(map[string]bool, len(domains))}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			s.domains[d] = true
		}
	}
	return s
}

// Load reads the reference bad-domain CSV. The file must carry a
// "bad_domains" header column; a UTF-8 BOM and stray tabs/quotes in cells
// are tolerated. A missing file yields an empty set and a nil error so the
// engine degrades to "no bad domain detected" instead of failing startup.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewSet(), nil
	}
	if err != nil {
		return NewSet(), fmt.Errorf("open bad-domain list: %w", err)
	}
	defer f.Close()

	return parse(f)
}

func parse(r io.Reader) (*Set, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return NewSet(), fmt.Errorf("read bad-domain header: %w", err)
	}

	column := -1
	for i, name := range header {
		if strings.TrimPrefix(strings.TrimSpace(name), "\ufeff") == headerColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return NewSet(), fmt.Errorf("bad-domain list is missing the %q column", headerColumn)
	}

	set := NewSet()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return set, fmt.Errorf("read bad-domain row: %w", err)
		}
		if column >= len(record) {
			continue
		}
		domain := strings.ToLower(strings.TrimSpace(record[column]))
		domain = strings.ReplaceAll(domain, "\t", "")
		domain = strings.ReplaceAll(domain, `"`, "")
		if domain != "" {
			set.domains[domain] = true
		}
	}

	return set, nil
}

// Contains reports whether the domain is a member of the set.
func (s *Set) Contains(domain string) bool {
	return s.domains[strings.ToLower(strings.TrimSpace(domain))]
}

// Len returns the number of domains in the set.
func (s *Set) Len() int {
	return len(s.domains)
}

// Repair maps a possibly-mangled domain back onto the set. Precedence,
// first match wins:
//
//  1. already a member, returned as-is
//  2. a member plus at most 4 trailing alphanumeric garbage characters
//  3. a subdomain of a member
//  4. a clearly-invalid TLD token, repaired by substituting com/net/org
//     when the substitution is itself a member
//
// Anything else is returned unchanged. Repair never invents a domain that
// is not in the set.
func (s *Set) Repair(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return ""
	}

	if s.domains[domain] {
		return domain
	}

	// Longest member wins in rules 2 and 3 so overlapping entries cannot
	// make the repair depend on map iteration order.
	best := ""
	for bad := range s.domains {
		if len(bad) <= len(best) || !strings.HasPrefix(domain, bad) || len(domain) <= len(bad) {
			continue
		}
		extra := domain[len(bad):]
		if len(extra) <= 4 && isAlnum(extra) {
			best = bad
		}
	}
	if best != "" {
		return best
	}

	for bad := range s.domains {
		if len(bad) > len(best) && strings.HasSuffix(domain, "."+bad) {
			best = bad
		}
	}
	if best != "" {
		return best
	}

	if dot := strings.LastIndex(domain, "."); dot > 0 {
		base, tld := domain[:dot], domain[dot+1:]
		if invalidTLDs[tld] || (len(tld) > 4 && isAlnum(tld)) {
			for _, repaired := range repairTLDs {
				candidate := base + "." + repaired
				if s.domains[candidate] {
					return candidate
				}
			}
		}
	}

	return domain
}

// IsBad reports whether the repaired form of the domain is a member.
func (s *Set) IsBad(domain string) bool {
	if domain == "" {
		return false
	}
	return s.domains[s.Repair(domain)]
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return s != ""
}
