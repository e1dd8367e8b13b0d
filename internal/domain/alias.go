package domain

import (
	"strings"
)

// AliasRule is an ordered pair mapping an origin path prefix to a
// replacement prefix. It is applied to a file identifier by substituting
// the origin prefix when the identifier starts with it.
type AliasRule struct {
	From string
	To   string
}

// PathAliases holds an ordered list of alias rules applied to file
// identifiers during a coverage database merge. Rules are tried in
// insertion order and the first match wins; identifiers matching no rule
// pass through unchanged.
type PathAliases struct {
	rules []AliasRule
}

// NewPathAliases creates an empty rule set.
func NewPathAliases() *PathAliases {
	return &PathAliases{}
}

// Add appends a rule mapping the from prefix to the to prefix.
// Trailing separators on either side are normalized away so that
// "/build/pkg/" and "/build/pkg" describe the same rule.
func (a *PathAliases) Add(from, to string) {
	a.rules = append(a.rules, AliasRule{
		From: trimTrailingSep(from),
		To:   trimTrailingSep(to),
	})
}

// Len returns the number of configured rules.
func (a *PathAliases) Len() int {
	return len(a.rules)
}

// Map applies the first matching rule to path. A rule matches when the
// identifier equals the origin prefix or continues past it at a path
// boundary, so "/build/pkg" rewrites "/build/pkg/mod.py" but leaves
// "/build/pkgextra/mod.py" alone.
func (a *PathAliases) Map(path string) string {
	for _, rule := range a.rules {
		if path == rule.From {
			return rule.To
		}
		for _, sep := range []string{"/", `\`} {
			if strings.HasPrefix(path, rule.From+sep) {
				return rule.To + sep + path[len(rule.From)+1:]
			}
		}
	}
	return path
}

func trimTrailingSep(p string) string {
	for len(p) > 1 && (strings.HasSuffix(p, "/") || strings.HasSuffix(p, `\`)) {
		p = p[:len(p)-1]
	}
	return p
}
