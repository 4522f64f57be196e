package enrich

import (
	"fmt"
	"strings"

	"freepress/internal/model"
	"freepress/internal/scrape"
)

// Aspect is one research topic the enricher can fill in.
type Aspect string

const (
	AspectOwnership Aspect = "ownership"
	AspectFunding   Aspect = "funding"
	AspectLegal     Aspect = "legal"
	AspectAudience  Aspect = "audience"
)

// AllAspects is the default research order.
var AllAspects = []Aspect{AspectOwnership, AspectFunding, AspectLegal, AspectAudience}

// ParseAspect accepts an aspect name in any case.
func ParseAspect(s string) (Aspect, error) {
	a := Aspect(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllAspects {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown aspect %q", s)
}

const systemPrompt = `
	You are a media research assistant building a transparency profile of a news outlet.
	Answer with a single JSON object and nothing else.
	Use only facts you are confident about; leave a field out instead of guessing.
	Dates use YYYY-MM-DD or YYYY.
	`

const maxContext = 3000

func aspectPrompt(a Aspect, o model.Outlet, page scrape.Page) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Outlet: %s\n", o.Name)
	if o.Website != "" {
		fmt.Fprintf(b, "Website: %s\n", o.Website)
	}
	if o.Country != "" {
		fmt.Fprintf(b, "Country: %s\n", o.Country)
	}
	if o.MediaType != "" {
		fmt.Fprintf(b, "Media type: %s\n", o.MediaType)
	}
	if c := strings.TrimSpace(page.Content); c != "" {
		fmt.Fprintf(b, "Excerpt from the outlet's website:\n%s\n", scrape.Truncate(c, maxContext))
	}
	b.WriteString("\nTask: ")
	switch a {
	case AspectOwnership:
		b.WriteString(`Describe who owns and controls this outlet. Return
{"ownership": {"type": "public|private|nonprofit|state|family|independent", "details": "", "parent": "", "ultimateOwner": "", "shareholders": [{"name": "", "role": ""}], "confidence": "high|medium|low"},
 "stakeholders": [{"name": "", "role": "", "politicalLean": ""}],
 "boardMembers": [{"name": "", "role": ""}]}`)
	case AspectFunding:
		b.WriteString(`Describe how this outlet is funded. Return
{"funding": {"sources": [""], "sponsors": [""], "politicalDonors": [""], "governmentFunding": {"hasGovFunding": false, "details": ""}, "financialTransparency": "high|medium|low"}}`)
	case AspectLegal:
		b.WriteString(`List legal cases, retractions and scandals involving this outlet, and its accountability practices. Return
{"lawsuits": [{"title": "", "date": "", "type": "defamation|privacy|copyright|other", "status": "active|settled|dismissed", "description": ""}],
 "retractions": [{"title": "", "date": "", "description": "", "source": ""}],
 "scandals": [{"title": "", "date": "", "description": "", "source": ""}],
 "accountability": {"correctionPolicy": {"exists": false, "visible": false, "quality": ""}, "ethicsCode": {"exists": false}, "factChecking": {"hasTeam": false}}}`)
	case AspectAudience:
		b.WriteString(`Describe the audience and political leaning of this outlet. Return
{"audience": {"size": "", "reach": "local|national|international", "demographics": [""]},
 "estimatedAudience": "",
 "biasScore": 0}
biasScore ranges from -2 (strongly left) to 2 (strongly right).`)
	}
	return b.String()
}

func discoverPrompt(q DiscoverQuery) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "List up to %d notable news outlets", q.Limit)
	if q.Country != "" {
		fmt.Fprintf(b, " based in %s", q.Country)
	}
	if q.MediaType != "" {
		fmt.Fprintf(b, " of type %s", q.MediaType)
	}
	b.WriteString(`. Return
{"outlets": [{"name": "", "website": "", "country": "", "mediaType": "", "estimatedAudience": "", "description": ""}]}`)
	return b.String()
}
