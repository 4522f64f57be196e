package model

import (
	"fmt"
	"strings"
)

// The Decode* helpers turn loosely typed JSON (as produced by
// encoding/json into `any`) into outlet fields. Research payloads come from
// language models and scrapers, so every helper accepts the wrong type and
// returns the zero value for it.

// DecodeOwnership maps a string to Freeform and an object to Structured.
func DecodeOwnership(v any) Ownership {
	switch t := v.(type) {
	case string:
		return FreeformOwnership(t)
	case map[string]any:
		return StructuredOwnership(OwnershipInfo{
			Type:          String(t["type"]),
			Details:       String(t["details"]),
			Parent:        String(t["parent"]),
			UltimateOwner: String(t["ultimateOwner"]),
			Shareholders:  DecodeStakeholders(t["shareholders"]),
			Confidence:    strings.ToLower(String(t["confidence"])),
		})
	}
	return Ownership{}
}

// DecodeFunding maps a list to Freeform labels and an object to Structured.
func DecodeFunding(v any) Funding {
	switch t := v.(type) {
	case []any:
		return FreeformFunding(Strings(t)...)
	case string:
		return FreeformFunding(Strings(t)...)
	case map[string]any:
		info := FundingInfo{
			Sources:               Strings(t["sources"]),
			Sponsors:              Strings(t["sponsors"]),
			PoliticalDonors:       Strings(t["politicalDonors"]),
			FinancialTransparency: strings.ToLower(String(t["financialTransparency"])),
		}
		switch g := t["governmentFunding"].(type) {
		case map[string]any:
			info.GovernmentFunding.HasGovFunding = Bool(g["hasGovFunding"])
			info.GovernmentFunding.Details = String(g["details"])
		case bool:
			info.GovernmentFunding.HasGovFunding = g
		}
		return StructuredFunding(info)
	}
	return Funding{}
}

// DecodeAccountability returns nil unless v is an object.
func DecodeAccountability(v any) *Accountability {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	a := &Accountability{}
	if cp, ok := m["correctionPolicy"].(map[string]any); ok {
		a.CorrectionPolicy.Exists = Bool(cp["exists"])
		a.CorrectionPolicy.Visible = Bool(cp["visible"])
		a.CorrectionPolicy.Quality = String(cp["quality"])
	}
	if ec, ok := m["ethicsCode"].(map[string]any); ok {
		a.EthicsCode.Exists = Bool(ec["exists"])
	}
	if fc, ok := m["factChecking"].(map[string]any); ok {
		a.FactChecking.HasTeam = Bool(fc["hasTeam"])
	}
	return a
}

func DecodeAudience(v any) *Audience {
	switch t := v.(type) {
	case map[string]any:
		return &Audience{
			Size:         String(t["size"]),
			Reach:        String(t["reach"]),
			Demographics: Strings(t["demographics"]),
		}
	case string:
		if strings.TrimSpace(t) != "" {
			return &Audience{Size: t}
		}
	}
	return nil
}

// DecodeStakeholders accepts a list of objects or plain names.
func DecodeStakeholders(v any) []Stakeholder {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Stakeholder, 0, len(list))
	for _, it := range list {
		switch t := it.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, Stakeholder{Name: s})
			}
		case map[string]any:
			name := String(t["name"])
			if name == "" {
				continue
			}
			out = append(out, Stakeholder{
				Name:          name,
				Role:          String(t["role"]),
				PoliticalLean: String(t["politicalLean"]),
			})
		}
	}
	return out
}

func DecodeLawsuits(v any) []Lawsuit {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Lawsuit, 0, len(list))
	for _, it := range list {
		switch t := it.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, Lawsuit{Description: s})
			}
		case map[string]any:
			out = append(out, Lawsuit{
				Title:       String(t["title"]),
				Date:        String(t["date"]),
				Type:        strings.ToLower(String(t["type"])),
				Status:      strings.ToLower(String(t["status"])),
				Description: String(t["description"]),
			})
		}
	}
	return out
}

func DecodeEvents(v any) []Event {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Event, 0, len(list))
	for _, it := range list {
		switch t := it.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, Event{Title: s})
			}
		case map[string]any:
			out = append(out, Event{
				Title:       String(t["title"]),
				Date:        String(t["date"]),
				Description: String(t["description"]),
				Source:      String(t["source"]),
			})
		}
	}
	return out
}

// String returns v when it is a string; numbers are formatted, anything
// else is empty.
func String(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return fmt.Sprintf("%v", t)
	}
	return ""
}

// Bool treats JSON true and the strings "true"/"yes" as true.
func Bool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "yes"
	}
	return false
}

// Strings collects the non-empty strings of a list. Objects contribute their
// "name" field; a bare string becomes a one-element list.
func Strings(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			s := String(it)
			if m, ok := it.(map[string]any); ok {
				s = String(m["name"])
			}
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// Float returns a JSON number, or ok=false.
func Float(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
