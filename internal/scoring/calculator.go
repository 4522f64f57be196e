// Package scoring derives an outlet's integrity sub-scores and its
// composite Free Press Score from accumulated research data.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"freepress/internal/model"
)

// ErrNoResult means no scores could be computed. Callers keep the previous
// scores untouched.
var ErrNoResult = errors.New("scoring: no result")

// Composite weights, in hundredths.
const (
	weightFactCheck    = 35
	weightIndependence = 35
	weightTransparency = 30
)

// Scores holds the four computed fields.
type Scores struct {
	FactCheckAccuracy     int
	EditorialIndependence int
	Transparency          int
	FreePressScore        int
}

// Calculate is pure and deterministic: the same outlet data always yields
// the same scores. LastUpdated is never read.
func Calculate(o *model.Outlet) (s Scores, err error) {
	if o == nil {
		return Scores{}, ErrNoResult
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = Scores{}, fmt.Errorf("%w: %v", ErrNoResult, r)
		}
	}()
	s.FactCheckAccuracy = factCheckAccuracy(o)
	s.EditorialIndependence = editorialIndependence(o)
	s.Transparency = transparency(o)
	s.FreePressScore = Composite(s.FactCheckAccuracy, s.EditorialIndependence, s.Transparency)
	return s, nil
}

// Composite is round(0.35·fc + 0.35·ei + 0.30·tr) clamped to [0,100],
// computed in integer hundredths so halves always round up.
func Composite(fc, ei, tr int) int {
	n := weightFactCheck*fc + weightIndependence*ei + weightTransparency*tr
	return clamp((n + 50) / 100)
}

// Apply writes s into o.
func Apply(o *model.Outlet, s Scores) {
	o.FactCheckAccuracy = s.FactCheckAccuracy
	o.EditorialIndependence = s.EditorialIndependence
	o.Transparency = s.Transparency
	o.FreePressScore = s.FreePressScore
}

func factCheckAccuracy(o *model.Outlet) int {
	score := 80
	score -= min(5*len(o.Retractions), 30)
	score -= min(8*DefamationCount(o.Lawsuits), 20)
	if a := o.Accountability; a != nil {
		if a.CorrectionPolicy.Exists {
			score += 5
		}
		if a.FactChecking.HasTeam {
			score += 5
		}
	}
	return clamp(score)
}

// DefamationCount counts lawsuits typed as defamation or describing it.
func DefamationCount(lawsuits []model.Lawsuit) int {
	n := 0
	for _, l := range lawsuits {
		if strings.EqualFold(strings.TrimSpace(l.Type), "defamation") ||
			strings.Contains(strings.ToLower(l.Description), "defamation") {
			n++
		}
	}
	return n
}

func editorialIndependence(o *model.Outlet) int {
	score := 75
	score += ownershipAdjustment(o.Ownership.TypeText())
	if f, ok := o.Funding.Structured(); ok && f.GovernmentFunding.HasGovFunding {
		score -= 15
	}
	switch n := len(o.Stakeholders); {
	case n > 3:
		score += 5
	case n == 1:
		score -= 5
	}
	return clamp(score)
}

// ownershipAdjustment classifies the owner text; the first matching rule
// wins, so "public" outranks "government" when both appear.
func ownershipAdjustment(text string) int {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "public"), strings.Contains(t, "nonprofit"):
		return 10
	case strings.Contains(t, "state"), strings.Contains(t, "government"):
		return -20
	case strings.Contains(t, "family"), strings.Contains(t, "independent"):
		return 5
	}
	return 0
}

func transparency(o *model.Outlet) int {
	score := 70
	if own, ok := o.Ownership.Structured(); ok {
		if strings.TrimSpace(own.Details) != "" {
			score += 5
		}
		if len(own.Shareholders) > 0 {
			score += 5
		}
		if strings.EqualFold(own.Confidence, "high") {
			score += 5
		}
	}
	if f, ok := o.Funding.Structured(); ok {
		if len(f.Sources) > 0 {
			score += 5
		}
		switch strings.ToLower(f.FinancialTransparency) {
		case "high":
			score += 10
		case "medium":
			score += 5
		}
	}
	if a := o.Accountability; a != nil {
		if a.CorrectionPolicy.Visible {
			score += 5
		}
		if a.EthicsCode.Exists {
			score += 5
		}
	}
	if len(o.BoardMembers) > 0 {
		score += 5
	}
	return clamp(score)
}

func clamp(v int) int {
	return max(0, min(100, v))
}
