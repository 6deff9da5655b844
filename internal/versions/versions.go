// Package versions picks which dated schema snapshot to analyse.
package versions

import (
	"fmt"
	"sort"

	"github.com/grafana/regexp"
)

// Latest asks discovery to try every dated version, newest first.
const Latest = "latest"

// datePattern only admits names made of digits and hyphens, e.g. "2019-04-01".
var datePattern = regexp.MustCompile(`^[\d-]+$`)

// TypeDir marks directory entries in a listing.
const TypeDir = "dir"

// Entry is one item of a repository directory listing. Type is empty when
// the lister does not report it.
type Entry struct {
	Name string
	Path string
	Type string
}

// IsDir reports whether e may be a version directory.
func (e Entry) IsDir() bool {
	return e.Type == "" || e.Type == TypeDir
}

// NotFoundError is returned when no candidate version matches the target.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no schema version matching %q", e.Target)
}

// IsDateVersion reports whether name looks like a dated version.
func IsDateVersion(name string) bool {
	return datePattern.MatchString(name)
}

// Candidates keeps the directory entries whose names look like dates and
// sorts them newest first. For zero-padded ISO dates a descending string
// sort is a descending chronological sort. The input is not modified.
func Candidates(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && IsDateVersion(e.Name) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name > out[j].Name
	})
	return out
}

// Select returns the candidate whose name equals target. When a listing
// repeats a name the first one wins.
func Select(entries []Entry, target string) (Entry, error) {
	for _, e := range Candidates(entries) {
		if e.Name == target {
			return e, nil
		}
	}
	return Entry{}, &NotFoundError{Target: target}
}

// Resolve expands target into the ordered list of entries discovery should
// try: every candidate for Latest, otherwise the single exact match.
func Resolve(entries []Entry, target string) ([]Entry, error) {
	if target == Latest {
		candidates := Candidates(entries)
		if len(candidates) == 0 {
			return nil, &NotFoundError{Target: target}
		}
		return candidates, nil
	}

	e, err := Select(entries, target)
	if err != nil {
		return nil, err
	}
	return []Entry{e}, nil
}
