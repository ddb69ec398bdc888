package picker

import "strings"

// AcceptFilter decides which files a listing shows. Suffixes are matched
// against the lower-cased file name without adding a dot, so "py" accepts
// "x.py" (and "happy"). The zero value accepts all files, as does a filter
// built with no suffixes or with "".
type AcceptFilter struct {
	suffixes []string
	all      bool
}

// NewAcceptFilter builds a filter from suffixes. Callers pass them without
// a dot: "pdf", "jpg". A leading dot, as in ".pdf", only works because it
// is part of the suffix, and then also requires the dot in the name.
func NewAcceptFilter(suffixes ...string) AcceptFilter {
	var f AcceptFilter
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			f.all = true
			continue
		}
		f.suffixes = append(f.suffixes, s)
	}
	return f
}

// ParseAccept splits comma separated suffix lists, e.g. "jpg,png"
func ParseAccept(values ...string) AcceptFilter {
	var suffixes []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				suffixes = append(suffixes, part)
			}
		}
	}
	return NewAcceptFilter(suffixes...)
}

// AcceptsAll reports whether every file passes
func (f AcceptFilter) AcceptsAll() bool {
	return f.all || len(f.suffixes) == 0
}

// Suffixes returns a copy of the configured suffixes
func (f AcceptFilter) Suffixes() []string {
	return append([]string(nil), f.suffixes...)
}

// Match reports whether an entry of the given kind and name passes
func (f AcceptFilter) Match(name string, kind Kind) bool {
	if kind == KindDirectory || f.AcceptsAll() {
		return true
	}
	lower := strings.ToLower(name)
	for _, s := range f.suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}
