package model

import (
	"encoding/json"
	"strings"
)

// Shape tags the variant held by Ownership and Funding.
type Shape int

const (
	ShapeAbsent Shape = iota
	ShapeFreeform
	ShapeStructured
)

// Ownership is either a free-text description or a structured record.
// The zero value means no ownership data is known.
type Ownership struct {
	Shape Shape
	Text  string
	Info  *OwnershipInfo
}

// OwnershipInfo is the structured form of Ownership.
type OwnershipInfo struct {
	Type          string        `json:"type,omitempty"` // public|private|nonprofit|government|family|unknown
	Details       string        `json:"details,omitempty"`
	Parent        string        `json:"parent,omitempty"`
	UltimateOwner string        `json:"ultimateOwner,omitempty"`
	Shareholders  []Stakeholder `json:"shareholders,omitempty"`
	Confidence    string        `json:"confidence,omitempty"`
}

func FreeformOwnership(text string) Ownership {
	if strings.TrimSpace(text) == "" {
		return Ownership{}
	}
	return Ownership{Shape: ShapeFreeform, Text: text}
}

func StructuredOwnership(info OwnershipInfo) Ownership {
	return Ownership{Shape: ShapeStructured, Info: &info}
}

// Structured returns the structured record, if that is the variant held.
func (o Ownership) Structured() (*OwnershipInfo, bool) {
	if o.Shape != ShapeStructured || o.Info == nil {
		return nil, false
	}
	return o.Info, true
}

// TypeText is the text used to classify the owner: the free-text value or
// the structured type field.
func (o Ownership) TypeText() string {
	switch o.Shape {
	case ShapeFreeform:
		return o.Text
	case ShapeStructured:
		if o.Info != nil {
			return o.Info.Type
		}
	}
	return ""
}

func (o Ownership) IsZero() bool { return o.Shape == ShapeAbsent }

func (o Ownership) clone() Ownership {
	if o.Info == nil {
		return o
	}
	info := *o.Info
	info.Shareholders = append([]Stakeholder(nil), o.Info.Shareholders...)
	o.Info = &info
	return o
}

func (o Ownership) MarshalJSON() ([]byte, error) {
	switch o.Shape {
	case ShapeFreeform:
		return json.Marshal(o.Text)
	case ShapeStructured:
		if o.Info != nil {
			return json.Marshal(o.Info)
		}
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a string, an object, or anything else; values of the
// wrong shape decode to absent rather than failing the enclosing document.
func (o *Ownership) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*o = Ownership{}
		return nil
	}
	*o = DecodeOwnership(v)
	return nil
}

// Funding is either a list of funding-source labels or a structured record.
type Funding struct {
	Shape  Shape
	Labels []string
	Info   *FundingInfo
}

// FundingInfo is the structured form of Funding.
type FundingInfo struct {
	Sources               []string          `json:"sources,omitempty"`
	Sponsors              []string          `json:"sponsors,omitempty"`
	PoliticalDonors       []string          `json:"politicalDonors,omitempty"`
	GovernmentFunding     GovernmentFunding `json:"governmentFunding"`
	FinancialTransparency string            `json:"financialTransparency,omitempty"` // high|medium|low
}

type GovernmentFunding struct {
	HasGovFunding bool   `json:"hasGovFunding"`
	Details       string `json:"details,omitempty"`
}

func FreeformFunding(labels ...string) Funding {
	if len(labels) == 0 {
		return Funding{}
	}
	return Funding{Shape: ShapeFreeform, Labels: labels}
}

func StructuredFunding(info FundingInfo) Funding {
	return Funding{Shape: ShapeStructured, Info: &info}
}

func (f Funding) Structured() (*FundingInfo, bool) {
	if f.Shape != ShapeStructured || f.Info == nil {
		return nil, false
	}
	return f.Info, true
}

func (f Funding) IsZero() bool { return f.Shape == ShapeAbsent }

func (f Funding) clone() Funding {
	f.Labels = append([]string(nil), f.Labels...)
	if f.Info != nil {
		info := *f.Info
		info.Sources = append([]string(nil), f.Info.Sources...)
		info.Sponsors = append([]string(nil), f.Info.Sponsors...)
		info.PoliticalDonors = append([]string(nil), f.Info.PoliticalDonors...)
		f.Info = &info
	}
	return f
}

func (f Funding) MarshalJSON() ([]byte, error) {
	switch f.Shape {
	case ShapeFreeform:
		return json.Marshal(f.Labels)
	case ShapeStructured:
		if f.Info != nil {
			return json.Marshal(f.Info)
		}
	}
	return []byte("null"), nil
}

func (f *Funding) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*f = Funding{}
		return nil
	}
	*f = DecodeFunding(v)
	return nil
}
