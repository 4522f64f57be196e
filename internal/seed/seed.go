// Package seed loads initial outlet data from a directory of Markdown files.
// Each file's YAML frontmatter carries outlet fields; the body is the
// description.
package seed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"freepress/internal/markdown"
	"freepress/internal/model"
	"freepress/internal/outlets"
)

// Entry is one parsed seed file.
type Entry struct {
	File      string
	Candidate model.Candidate
	Patch     outlets.Patch
}

// LoadDir parses every *.md file in dir, in file-name order. Files without
// a name are skipped with a warning.
func LoadDir(dir string) ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var out []Entry
	for _, p := range paths {
		doc, err := markdown.ParseFile(p)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		e := FromDocument(doc)
		if e.Candidate.Name == "" {
			slog.Warn("seed: file has no name, skipping", "file", p)
			continue
		}
		e.File = p
		out = append(out, e)
	}
	return out, nil
}

// FromDocument maps frontmatter keys to outlet fields. Values of the wrong
// shape are ignored.
func FromDocument(doc markdown.Document) Entry {
	fm := doc.Frontmatter
	desc := model.String(fm["description"])
	if desc == "" {
		desc = strings.TrimSpace(doc.Body)
	}
	e := Entry{Candidate: model.Candidate{
		Name:              model.String(fm["name"]),
		Website:           model.String(fm["website"]),
		Country:           model.String(fm["country"]),
		MediaType:         model.String(fm["mediaType"]),
		EstimatedAudience: model.String(fm["estimatedAudience"]),
		Description:       desc,
	}}

	p := &e.Patch
	if b, ok := model.Float(fm["biasScore"]); ok {
		p.BiasScore = &b
	}
	if s := model.String(fm["logoUrl"]); s != "" {
		p.LogoURL = &s
	}
	if own := model.DecodeOwnership(fm["ownership"]); !own.IsZero() {
		p.Ownership = &own
	}
	if f := model.DecodeFunding(fm["funding"]); !f.IsZero() {
		p.Funding = &f
	}
	p.Accountability = model.DecodeAccountability(fm["accountability"])
	p.Audience = model.DecodeAudience(fm["audience"])
	p.Lawsuits = model.DecodeLawsuits(fm["lawsuits"])
	p.Retractions = model.DecodeEvents(fm["retractions"])
	p.Scandals = model.DecodeEvents(fm["scandals"])
	p.Stakeholders = model.DecodeStakeholders(fm["stakeholders"])
	p.BoardMembers = model.DecodeStakeholders(fm["boardMembers"])
	return e
}

// Report summarizes an Apply run.
type Report struct {
	Added      []model.Outlet
	Duplicates []Duplicate
}

// Duplicate is a seed entry that matched an existing outlet.
type Duplicate struct {
	File     string
	Existing model.Outlet
}

// Apply inserts entries through the repository's duplicate pre-check.
// Entries matching an existing outlet are reported, not merged. New outlets
// get their frontmatter data and fresh scores.
func Apply(repo *outlets.Repository, entries []Entry) (Report, error) {
	var rep Report
	for _, e := range entries {
		o, created, err := repo.Add(e.Candidate)
		if err != nil {
			return rep, fmt.Errorf("seed %s: %w", e.File, err)
		}
		if !created {
			slog.Info("seed: duplicate skipped", "file", e.File, "existing", o.ID, "name", o.Name)
			rep.Duplicates = append(rep.Duplicates, Duplicate{File: e.File, Existing: o})
			continue
		}
		if !e.Patch.IsEmpty() {
			repo.Update(o.ID, e.Patch)
		}
		if o, err = repo.RecomputeScores(o.ID); err != nil {
			slog.Warn("seed: scores kept", "id", o.ID, "err", err)
		}
		rep.Added = append(rep.Added, o)
	}
	return rep, nil
}

// Exists reports whether dir is an existing directory.
func Exists(dir string) bool {
	st, err := os.Stat(dir)
	return err == nil && st.IsDir()
}
