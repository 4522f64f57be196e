package model

import (
	"encoding/json"
	"time"
)

// Outlet is a single media organization tracked by the dashboard.
type Outlet struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Website   string  `json:"website,omitempty"`
	Country   string  `json:"country,omitempty"`
	MediaType string  `json:"mediaType,omitempty"`
	BiasScore float64 `json:"biasScore"`

	Description       string    `json:"description,omitempty"`
	EstimatedAudience string    `json:"estimatedAudience,omitempty"`
	Audience          *Audience `json:"audience,omitempty"`
	LogoURL           string    `json:"logoUrl,omitempty"`
	LogoPath          string    `json:"logoPath,omitempty"`

	FactCheckAccuracy     int `json:"factCheckAccuracy"`
	EditorialIndependence int `json:"editorialIndependence"`
	Transparency          int `json:"transparency"`
	FreePressScore        int `json:"freePressScore"`

	Retractions []Event   `json:"retractions,omitempty"`
	Lawsuits    []Lawsuit `json:"lawsuits,omitempty"`
	Scandals    []Event   `json:"scandals,omitempty"`

	Ownership      Ownership       `json:"ownership"`
	Funding        Funding         `json:"funding"`
	Accountability *Accountability `json:"accountability,omitempty"`

	Stakeholders []Stakeholder `json:"stakeholders,omitempty"`
	BoardMembers []Stakeholder `json:"boardMembers,omitempty"`

	LastUpdated  time.Time `json:"lastUpdated"`
	LastEnriched time.Time `json:"lastEnriched,omitempty"`
}

// UnmarshalJSON decodes the research fields leniently: a value of the wrong
// shape becomes absent instead of failing the whole record.
func (o *Outlet) UnmarshalJSON(b []byte) error {
	type plain Outlet
	aux := struct {
		*plain
		Audience       any `json:"audience"`
		Retractions    any `json:"retractions"`
		Lawsuits       any `json:"lawsuits"`
		Scandals       any `json:"scandals"`
		Accountability any `json:"accountability"`
		Stakeholders   any `json:"stakeholders"`
		BoardMembers   any `json:"boardMembers"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	o.Audience = DecodeAudience(aux.Audience)
	o.Retractions = DecodeEvents(aux.Retractions)
	o.Lawsuits = DecodeLawsuits(aux.Lawsuits)
	o.Scandals = DecodeEvents(aux.Scandals)
	o.Accountability = DecodeAccountability(aux.Accountability)
	o.Stakeholders = DecodeStakeholders(aux.Stakeholders)
	o.BoardMembers = DecodeStakeholders(aux.BoardMembers)
	return nil
}

// Event is a dated accountability record (retraction, scandal).
type Event struct {
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Lawsuit statuses.
const (
	LawsuitActive    = "active"
	LawsuitSettled   = "settled"
	LawsuitDismissed = "dismissed"
)

// Lawsuit is a legal case filed against the outlet.
type Lawsuit struct {
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	Type        string `json:"type,omitempty"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
}

// Stakeholder is a named owner, investor or board member.
type Stakeholder struct {
	Name          string `json:"name"`
	Role          string `json:"role,omitempty"`
	PoliticalLean string `json:"politicalLean,omitempty"`
}

// Audience describes who reads or watches an outlet.
type Audience struct {
	Size         string   `json:"size,omitempty"`
	Reach        string   `json:"reach,omitempty"`
	Demographics []string `json:"demographics,omitempty"`
}

// Accountability collects an outlet's published integrity practices.
type Accountability struct {
	CorrectionPolicy CorrectionPolicy `json:"correctionPolicy"`
	EthicsCode       struct {
		Exists bool `json:"exists"`
	} `json:"ethicsCode"`
	FactChecking struct {
		HasTeam bool `json:"hasTeam"`
	} `json:"factChecking"`
}

type CorrectionPolicy struct {
	Exists  bool   `json:"exists"`
	Visible bool   `json:"visible"`
	Quality string `json:"quality,omitempty"`
}

// Candidate is an outlet proposed by discovery, seeding or manual entry
// before it has been accepted into the collection.
type Candidate struct {
	Name              string `json:"name"`
	Website           string `json:"website,omitempty"`
	Country           string `json:"country,omitempty"`
	MediaType         string `json:"mediaType,omitempty"`
	EstimatedAudience string `json:"estimatedAudience,omitempty"`
	Description       string `json:"description,omitempty"`
}

// MatchType says why two outlets were considered the same.
type MatchType string

const (
	MatchNone    MatchType = ""
	MatchExact   MatchType = "exact"
	MatchSimilar MatchType = "similar"
	MatchPartial MatchType = "partial"
	MatchDomain  MatchType = "domain"
)

// DuplicatePair is one matching pair found by a pairwise scan.
type DuplicatePair struct {
	Outlet1    Outlet    `json:"outlet1"`
	Outlet2    Outlet    `json:"outlet2"`
	Reason     string    `json:"reason"`
	MatchType  MatchType `json:"matchType"`
	Similarity float64   `json:"similarity"`
}

// DuplicateGroup is a cluster of records believed to be one outlet.
// IDs are in collection order; the first one is kept on merge.
type DuplicateGroup struct {
	Name      string    `json:"name"`
	IDs       []string  `json:"ids"`
	Count     int       `json:"count"`
	MatchType MatchType `json:"matchType"`
}

// Clone returns a deep copy so callers never share slices with the repository.
func (o Outlet) Clone() Outlet {
	c := o
	c.Retractions = append([]Event(nil), o.Retractions...)
	c.Scandals = append([]Event(nil), o.Scandals...)
	c.Lawsuits = append([]Lawsuit(nil), o.Lawsuits...)
	c.Stakeholders = append([]Stakeholder(nil), o.Stakeholders...)
	c.BoardMembers = append([]Stakeholder(nil), o.BoardMembers...)
	c.Ownership = o.Ownership.clone()
	c.Funding = o.Funding.clone()
	if o.Accountability != nil {
		a := *o.Accountability
		c.Accountability = &a
	}
	if o.Audience != nil {
		a := *o.Audience
		a.Demographics = append([]string(nil), o.Audience.Demographics...)
		c.Audience = &a
	}
	return c
}
