// Package match holds the fuzzy name-matching policy used by the rule
// tables and the companion lists. Every keyword or fragment comparison in
// furrow goes through here so the policy can be tightened in one place.
package match

import "strings"

// ContainsAny reports whether name contains any of the keywords,
// ignoring case. Blank keywords never match.
func ContainsAny(name string, keywords []string) bool {
	n := strings.ToLower(name)
	if strings.TrimSpace(n) == "" {
		return false
	}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// References reports whether any companion fragment refers to one of the
// names. A fragment refers to a name when either contains the other, so
// "bean" references "Green Bean" and "green beans" references "Bean".
func References(fragments []string, names ...string) bool {
	for _, f := range fragments {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if strings.Contains(name, f) || strings.Contains(f, name) {
				return true
			}
		}
	}
	return false
}
