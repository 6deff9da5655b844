package resolver

import (
	"strings"

	"github.com/grafana/regexp"
)

// DefaultSchemaHost is where Azure publishes its versioned resource schemas.
const DefaultSchemaHost = "https://schema.management.azure.com/schemas/"

// versionSegment matches the year-like path segment that starts a versioned
// schema path, e.g. "2019-04-01/".
var versionSegment = regexp.MustCompile(`^2\d{3}-`)

// Filter decides whether a reference is kept.
type Filter func(ref string) bool

// Versioned keeps references that point into host and whose first path
// segment after host is a dated version.
func Versioned(host string) Filter {
	return func(ref string) bool {
		rest, ok := strings.CutPrefix(ref, host)
		return ok && versionSegment.MatchString(rest)
	}
}

// StripFragment drops everything from the first '#'. A reference without a
// fragment is returned unchanged.
func StripFragment(ref string) string {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		return ref[:i]
	}
	return ref
}

// Dedupe removes repeated references, keeping the first occurrence of each.
func Dedupe(refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}

// ResourceList turns raw references into the ordered list of schema files
// they name: filter, then strip fragments, then drop duplicates.
func ResourceList(refs []string, keep Filter) []string {
	files := make([]string, 0, len(refs))
	for _, ref := range refs {
		if keep(ref) {
			files = append(files, StripFragment(ref))
		}
	}
	return Dedupe(files)
}
