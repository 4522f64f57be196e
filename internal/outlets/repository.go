// Package outlets owns the in-memory outlet collection. It is the single
// writer for outlet records; everything else reads snapshots.
package outlets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"freepress/internal/dedup"
	"freepress/internal/model"
	"freepress/internal/scoring"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("outlets: not found")
	ErrEmptyName = errors.New("outlets: empty name")
)

// Persister is the backing store behind the repository. Calls may block on
// the network, so they only happen in Load and Flush.
type Persister interface {
	LoadOutlets(ctx context.Context) ([]model.Outlet, error)
	SaveOutlets(ctx context.Context, outlets []model.Outlet) error
	DeleteOutlets(ctx context.Context, ids []string) error
}

// Options configure a Repository. Now and NewID are overridable for tests.
type Options struct {
	Dedup dedup.Options
	Now   func() time.Time
	NewID func() string
}

// Patch carries a partial update. Nil pointers and nil slices leave the
// stored field unchanged.
type Patch struct {
	Name              *string
	Website           *string
	Country           *string
	MediaType         *string
	Description       *string
	EstimatedAudience *string
	BiasScore         *float64
	LogoURL           *string
	LogoPath          *string
	Audience          *model.Audience
	Ownership         *model.Ownership
	Funding           *model.Funding
	Accountability    *model.Accountability
	Retractions       []model.Event
	Scandals          []model.Event
	Lawsuits          []model.Lawsuit
	Stakeholders      []model.Stakeholder
	BoardMembers      []model.Stakeholder
	LastEnriched      *time.Time
}

// IsEmpty reports whether applying p would change nothing but LastUpdated.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Website == nil && p.Country == nil && p.MediaType == nil &&
		p.Description == nil && p.EstimatedAudience == nil && p.BiasScore == nil &&
		p.LogoURL == nil && p.LogoPath == nil && p.Audience == nil &&
		p.Ownership == nil && p.Funding == nil && p.Accountability == nil &&
		p.Retractions == nil && p.Scandals == nil && p.Lawsuits == nil &&
		p.Stakeholders == nil && p.BoardMembers == nil && p.LastEnriched == nil
}

// Repository is safe for concurrent use. Mutations are serialized behind one
// lock and reads return deep copies, so no caller can observe a half-written
// record.
type Repository struct {
	store   Persister
	matcher dedup.Matcher
	now     func() time.Time
	newID   func() string

	mu      sync.RWMutex
	outlets []model.Outlet
	index   map[string]int
	dirty   map[string]struct{}
	deleted map[string]struct{}

	flushMu sync.Mutex
}

// New builds an empty repository. store may be nil for a purely in-memory
// collection.
func New(store Persister, opts Options) *Repository {
	r := &Repository{
		store:   store,
		matcher: dedup.NewMatcher(opts.Dedup),
		now:     opts.Now,
		newID:   opts.NewID,
		index:   map[string]int{},
		dirty:   map[string]struct{}{},
		deleted: map[string]struct{}{},
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	return r
}

// Load replaces the collection with the persisted one and clears pending
// writes.
func (r *Repository) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	list, err := r.store.LoadOutlets(ctx)
	if err != nil {
		return fmt.Errorf("load outlets: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outlets = r.outlets[:0]
	r.index = make(map[string]int, len(list))
	for _, o := range list {
		if _, dup := r.index[o.ID]; dup || o.ID == "" {
			slog.Warn("outlets: skipping record with bad id", "id", o.ID, "name", o.Name)
			continue
		}
		r.index[o.ID] = len(r.outlets)
		r.outlets = append(r.outlets, o.Clone())
	}
	r.dirty = map[string]struct{}{}
	r.deleted = map[string]struct{}{}
	return nil
}

// GetAll returns a snapshot in insertion order.
func (r *Repository) GetAll() []model.Outlet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Outlet, len(r.outlets))
	for i, o := range r.outlets {
		out[i] = o.Clone()
	}
	return out
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.outlets)
}

func (r *Repository) Get(id string) (model.Outlet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return model.Outlet{}, false
	}
	return r.outlets[i].Clone(), true
}

// Add inserts the candidate unless it duplicates an existing outlet, in
// which case the existing one is returned with created=false. The duplicate
// check and the insert happen under the same lock.
func (r *Repository) Add(c model.Candidate) (model.Outlet, bool, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Website = strings.TrimSpace(c.Website)
	if c.Name == "" {
		return model.Outlet{}, false, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if i, mt := r.matcher.Match(r.outlets, c); i >= 0 {
		existing := r.outlets[i]
		slog.Debug("outlets: candidate matches existing outlet", "candidate", c.Name, "id", existing.ID, "match", mt)
		return existing.Clone(), false, nil
	}

	o := model.Outlet{
		ID:                r.newID(),
		Name:              c.Name,
		Website:           c.Website,
		Country:           c.Country,
		MediaType:         c.MediaType,
		EstimatedAudience: c.EstimatedAudience,
		Description:       c.Description,
		LastUpdated:       r.now(),
	}
	if s, err := scoring.Calculate(&o); err == nil {
		scoring.Apply(&o, s)
	}
	r.index[o.ID] = len(r.outlets)
	r.outlets = append(r.outlets, o)
	r.markDirty(o.ID)
	return o.Clone(), true, nil
}

// Update merges p into the outlet and refreshes LastUpdated. It returns
// false when id is unknown.
func (r *Repository) Update(id string, p Patch) (model.Outlet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return model.Outlet{}, false
	}
	next := r.outlets[i].Clone()
	applyPatch(&next, p)
	next.LastUpdated = r.now()
	r.outlets[i] = next
	r.markDirty(id)
	return next.Clone(), true
}

func applyPatch(o *model.Outlet, p Patch) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&o.Name, p.Name)
	setString(&o.Website, p.Website)
	setString(&o.Country, p.Country)
	setString(&o.MediaType, p.MediaType)
	setString(&o.Description, p.Description)
	setString(&o.EstimatedAudience, p.EstimatedAudience)
	setString(&o.LogoURL, p.LogoURL)
	setString(&o.LogoPath, p.LogoPath)
	if p.BiasScore != nil {
		o.BiasScore = ClampBias(*p.BiasScore)
	}
	if p.Audience != nil {
		a := *p.Audience
		a.Demographics = append([]string(nil), p.Audience.Demographics...)
		o.Audience = &a
	}
	if p.Ownership != nil {
		o.Ownership = *p.Ownership
	}
	if p.Funding != nil {
		o.Funding = *p.Funding
	}
	if p.Accountability != nil {
		a := *p.Accountability
		o.Accountability = &a
	}
	if p.Retractions != nil {
		o.Retractions = append([]model.Event(nil), p.Retractions...)
	}
	if p.Scandals != nil {
		o.Scandals = append([]model.Event(nil), p.Scandals...)
	}
	if p.Lawsuits != nil {
		o.Lawsuits = append([]model.Lawsuit(nil), p.Lawsuits...)
	}
	if p.Stakeholders != nil {
		o.Stakeholders = append([]model.Stakeholder(nil), p.Stakeholders...)
	}
	if p.BoardMembers != nil {
		o.BoardMembers = append([]model.Stakeholder(nil), p.BoardMembers...)
	}
	if p.LastEnriched != nil {
		o.LastEnriched = *p.LastEnriched
	}
	// stored records never share memory with the caller's patch
	*o = o.Clone()
}

// ClampBias bounds a bias score to [-2, 2].
func ClampBias(v float64) float64 {
	return max(-2, min(2, v))
}

// RemoveByIDs deletes every listed id and returns how many existed.
func (r *Repository) RemoveByIDs(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.outlets[:0]
	removed := 0
	for _, o := range r.outlets {
		if _, ok := drop[o.ID]; ok {
			removed++
			delete(r.dirty, o.ID)
			r.deleted[o.ID] = struct{}{}
			continue
		}
		kept = append(kept, o)
	}
	// clear the tail so removed records can be collected
	for i := len(kept); i < len(r.outlets); i++ {
		r.outlets[i] = model.Outlet{}
	}
	r.outlets = kept
	r.reindex()
	return removed
}

func (r *Repository) reindex() {
	r.index = make(map[string]int, len(r.outlets))
	for i, o := range r.outlets {
		r.index[o.ID] = i
	}
}

// RecomputeScores runs the calculator on one outlet. On scoring.ErrNoResult
// the stored scores are left untouched.
func (r *Repository) RecomputeScores(id string) (model.Outlet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return model.Outlet{}, ErrNotFound
	}
	if err := r.recomputeLocked(i); err != nil {
		return r.outlets[i].Clone(), err
	}
	return r.outlets[i].Clone(), nil
}

// RecomputeAll rescores every outlet and returns how many were updated.
// Outlets whose scoring fails keep their previous scores.
func (r *Repository) RecomputeAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.outlets {
		if err := r.recomputeLocked(i); err != nil {
			slog.Warn("outlets: score recompute skipped", "id", r.outlets[i].ID, "err", err)
			continue
		}
		n++
	}
	return n
}

func (r *Repository) recomputeLocked(i int) error {
	o := &r.outlets[i]
	s, err := scoring.Calculate(o)
	if err != nil {
		return err
	}
	scoring.Apply(o, s)
	o.LastUpdated = r.now()
	r.markDirty(o.ID)
	return nil
}

func (r *Repository) markDirty(id string) {
	r.dirty[id] = struct{}{}
	delete(r.deleted, id)
}

// Pending reports how many writes and deletes await the next Flush.
func (r *Repository) Pending() (writes, deletes int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dirty), len(r.deleted)
}

// Flush pushes pending writes and deletes to the backing store. On failure
// the pending sets are restored so a later Flush retries them.
func (r *Repository) Flush(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	r.mu.Lock()
	var save []model.Outlet
	for _, o := range r.outlets {
		if _, ok := r.dirty[o.ID]; ok {
			save = append(save, o.Clone())
		}
	}
	var del []string
	for id := range r.deleted {
		del = append(del, id)
	}
	r.dirty = map[string]struct{}{}
	r.deleted = map[string]struct{}{}
	r.mu.Unlock()

	if len(save) == 0 && len(del) == 0 {
		return nil
	}
	if len(save) > 0 {
		if err := r.store.SaveOutlets(ctx, save); err != nil {
			r.restore(save, del)
			return fmt.Errorf("save outlets: %w", err)
		}
	}
	if len(del) > 0 {
		if err := r.store.DeleteOutlets(ctx, del); err != nil {
			r.restore(nil, del)
			return fmt.Errorf("delete outlets: %w", err)
		}
	}
	slog.Debug("outlets: flushed", "saved", len(save), "deleted", len(del))
	return nil
}

func (r *Repository) restore(save []model.Outlet, del []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range save {
		if _, live := r.index[o.ID]; live {
			r.dirty[o.ID] = struct{}{}
		}
	}
	for _, id := range del {
		if _, live := r.index[id]; !live {
			r.deleted[id] = struct{}{}
		}
	}
}
