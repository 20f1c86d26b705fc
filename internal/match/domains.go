package match

import (
	"net/url"
	"strings"
)

// Subdomain prefixes removed when extracting a registrable domain, after the
// unconditional "www." strip.
var domainPrefixes = []string{"app.", "portal.", "my.", "secure.", "admin."}

// TLD suffixes removed when deriving a company name from a domain.
var domainSuffixes = []string{".com", ".org", ".net", ".edu", ".gov", ".co", ".io", ".ai"}

// DomainFromURL extracts a registrable domain from a website URL or an email
// address. Email input uses the host after the last "@"; URL input is parsed
// with an "http://" scheme prepended when missing. Unparseable input yields
// the empty string, never an error.
func DomainFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "@") {
		return DomainFromEmail(raw)
	}

	// Scheme detection must fold case or "HTTPS://..." would be parsed as
	// a second scheme on top of the prepended one.
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	return stripDomainPrefixes(strings.ToLower(parsed.Hostname()))
}

// DomainFromEmail extracts the domain from an email address. The domain must
// contain at least one dot to count as a domain at all.
func DomainFromEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}

	domain := strings.ToLower(email[at+1:])
	if !strings.Contains(domain, ".") {
		return ""
	}

	return stripDomainPrefixes(domain)
}

func stripDomainPrefixes(domain string) string {
	domain = strings.TrimPrefix(domain, "www.")
	for _, prefix := range domainPrefixes {
		if strings.HasPrefix(domain, prefix) {
			domain = domain[len(prefix):]
			break
		}
	}
	return domain
}

// NameFromDomain derives a bare comparable company name from a registrable
// domain: one known TLD removed from the end, everything non-alphanumeric
// dropped. Returns "" when nothing usable remains.
func NameFromDomain(domain string) string {
	if domain == "" {
		return ""
	}

	for _, suffix := range domainSuffixes {
		if strings.HasSuffix(domain, suffix) {
			domain = domain[:len(domain)-len(suffix)]
			break
		}
	}

	var b strings.Builder
	b.Grow(len(domain))
	for _, r := range strings.ToLower(domain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}
