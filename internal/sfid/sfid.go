// Package sfid converts between the 15- and 18-character forms of a
// Salesforce record identifier and decides whether two identifiers denote
// the same record.
package sfid

import "strings"

// To18 returns the canonical 18-character form of a 15-character identifier
// by appending a 3-character checksum suffix. Input of any other length is
// returned unchanged.
func To18(id string) string {
	if len(id) != 15 {
		return id
	}

	suffix := make([]byte, 0, 3)
	for chunk := 0; chunk < 3; chunk++ {
		value := 0
		for i := 0; i < 5; i++ {
			c := id[chunk*5+i]
			if c >= 'A' && c <= 'Z' {
				value += 1 << i
			}
		}
		if value < 26 {
			suffix = append(suffix, byte('A'+value))
		} else {
			suffix = append(suffix, byte('0'+value-26))
		}
	}

	return id + string(suffix)
}

// To15 returns the 15-character form of an identifier. 18-character input is
// truncated; anything else is returned unchanged.
func To15(id string) string {
	if len(id) == 18 {
		return id[:15]
	}
	return id
}

// SameEntity reports whether two identifiers refer to the same record,
// regardless of which representation each one uses. Empty input never
// matches anything, including another empty string.
//
// Every identifier-equality decision in this codebase must go through
// SameEntity; raw string comparison breaks on mixed 15/18-character data.
func SameEntity(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return To15(a) == To15(b)
}
