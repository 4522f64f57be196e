// Package dedup finds and merges outlet records that denote the same
// real-world outlet.
package dedup

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"freepress/internal/model"
	"freepress/internal/similarity"
)

// Source is the outlet collection the resolver scans and prunes.
type Source interface {
	GetAll() []model.Outlet
	RemoveByIDs(ids []string) int
}

// Options tune matching. Zero values fall back to the package defaults.
type Options struct {
	CandidateThreshold float64
	ScanThreshold      float64
	// RegistrableDomains compares eTLD+1 instead of the bare hostname.
	RegistrableDomains bool
}

func (o Options) withDefaults() Options {
	if o.CandidateThreshold <= 0 {
		o.CandidateThreshold = similarity.CandidateThreshold
	}
	if o.ScanThreshold <= 0 {
		o.ScanThreshold = similarity.ScanThreshold
	}
	return o
}

type Resolver struct {
	src  Source
	opts Options
}

func NewResolver(src Source, opts Options) *Resolver {
	return &Resolver{src: src, opts: opts.withDefaults()}
}

// Matcher holds the matching rules without a collection. The repository
// uses it to pre-check inserts while it already holds its own lock.
type Matcher struct {
	opts Options
}

func NewMatcher(opts Options) Matcher { return Matcher{opts: opts.withDefaults()} }

func (m Matcher) domain(website string) (string, bool) {
	if m.opts.RegistrableDomains {
		return similarity.RegistrableDomain(website)
	}
	return similarity.ExtractDomain(website)
}

// Match returns the first outlet, in slice order, that matches the
// candidate. For each record the checks run in priority order: same domain,
// same normalized name, then name similarity above the candidate threshold.
func (m Matcher) Match(outlets []model.Outlet, c model.Candidate) (int, model.MatchType) {
	cDomain, cHasDomain := m.domain(c.Website)
	cName := similarity.NormalizeName(c.Name)
	for i, o := range outlets {
		if cHasDomain {
			if d, ok := m.domain(o.Website); ok && d == cDomain {
				return i, model.MatchDomain
			}
		}
		oName := similarity.NormalizeName(o.Name)
		if oName == cName {
			return i, model.MatchExact
		}
		if similarity.Similarity(cName, oName) > m.opts.CandidateThreshold {
			return i, model.MatchSimilar
		}
	}
	return -1, model.MatchNone
}

// CheckForDuplicate returns the existing outlet the candidate duplicates,
// or ok=false. It never mutates the collection.
func (r *Resolver) CheckForDuplicate(c model.Candidate) (model.Outlet, model.MatchType, bool) {
	outlets := r.src.GetAll()
	i, mt := NewMatcher(r.opts).Match(outlets, c)
	if i < 0 {
		return model.Outlet{}, model.MatchNone, false
	}
	return outlets[i], mt, true
}

// FindAllDuplicates compares every unordered pair of one snapshot of the
// collection. Each matching pair is reported on its own; use GroupPairs to
// build clusters.
func (r *Resolver) FindAllDuplicates() []model.DuplicatePair {
	return ScanPairs(r.src.GetAll(), r.opts)
}

// ScanPairs is FindAllDuplicates over an explicit slice.
func ScanPairs(outlets []model.Outlet, opts Options) []model.DuplicatePair {
	opts = opts.withDefaults()
	m := Matcher{opts: opts}

	type key struct {
		name   string
		domain string
		hasDom bool
	}
	keys := make([]key, len(outlets))
	for i, o := range outlets {
		d, ok := m.domain(o.Website)
		keys[i] = key{name: similarity.NormalizeName(o.Name), domain: d, hasDom: ok}
	}

	var pairs []model.DuplicatePair
	for i := 0; i < len(outlets); i++ {
		for j := i + 1; j < len(outlets); j++ {
			a, b := keys[i], keys[j]
			if a.hasDom && b.hasDom && a.domain == b.domain {
				pairs = append(pairs, model.DuplicatePair{
					Outlet1:    outlets[i],
					Outlet2:    outlets[j],
					Reason:     "Same domain: " + a.domain,
					MatchType:  model.MatchDomain,
					Similarity: 1,
				})
				continue
			}
			s := similarity.Similarity(a.name, b.name)
			if s > opts.ScanThreshold {
				pairs = append(pairs, model.DuplicatePair{
					Outlet1:    outlets[i],
					Outlet2:    outlets[j],
					Reason:     fmt.Sprintf("Similar names (%d%%): %q vs %q", int(math.Round(s*100)), outlets[i].Name, outlets[j].Name),
					MatchType:  nameMatchType(a.name, b.name),
					Similarity: s,
				})
			}
		}
	}
	return pairs
}

func nameMatchType(a, b string) model.MatchType {
	switch {
	case a == b:
		return model.MatchExact
	case len(a) > 0 && len(b) > 0 && (strings.Contains(a, b) || strings.Contains(b, a)):
		return model.MatchPartial
	default:
		return model.MatchSimilar
	}
}

// RemoveDuplicates deletes the given ids and reports how many were removed.
// Which ids to pass is the caller's policy; see RemovalSet.
func (r *Resolver) RemoveDuplicates(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	n := r.src.RemoveByIDs(ids)
	slog.Info("dedup: removed duplicates", "requested", len(ids), "removed", n)
	return n
}

// MergeReport summarizes one Merge run.
type MergeReport struct {
	Pairs   int
	Groups  []model.DuplicateGroup
	Removed int
}

// Merge scans, groups with the keep-first policy and removes the redundant
// records.
func (r *Resolver) Merge() MergeReport {
	outlets := r.src.GetAll()
	pairs := ScanPairs(outlets, r.opts)
	groups := GroupPairs(outlets, pairs)
	removed := r.RemoveDuplicates(RemovalSet(groups))
	return MergeReport{Pairs: len(pairs), Groups: groups, Removed: removed}
}
