package report

import (
	"strings"
	"testing"
	"time"

	"freepress/internal/model"
)

func TestBuildRanksAndTruncates(t *testing.T) {
	outlets := []model.Outlet{
		{Name: "Low", FreePressScore: 40},
		{Name: "High", FreePressScore: 90, Website: "https://high.example", BiasScore: -0.5},
		{Name: "Mid A", FreePressScore: 70},
		{Name: "Mid B", FreePressScore: 70},
	}
	now := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	d := Build("Scoreboard {.CurrentDate}", outlets, nil, 3, now)

	if d.Title != "Scoreboard 2024-03-09" {
		t.Errorf("unexpected title %q", d.Title)
	}
	if len(d.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(d.Rows))
	}
	if d.Rows[0].Name != "High" || d.Rows[1].Name != "Mid A" || d.Rows[2].Name != "Mid B" {
		t.Errorf("unexpected ranking: %+v", d.Rows)
	}
	if d.Average != "67.5" || d.Total != 4 {
		t.Errorf("unexpected totals: %s %d", d.Average, d.Total)
	}
	if d.Rows[0].Bias != "-0.5" {
		t.Errorf("unexpected bias format %q", d.Rows[0].Bias)
	}
}

func TestRender(t *testing.T) {
	d := Build("Scoreboard", []model.Outlet{
		{Name: "The Guardian", Website: "https://theguardian.com", Country: "UK", FreePressScore: 81, FactCheckAccuracy: 85, EditorialIndependence: 80, Transparency: 78},
		{Name: "RT", Country: "RU", FreePressScore: 60},
	}, []model.DuplicateGroup{{Name: "Reuters", IDs: []string{"a", "b"}, Count: 2, MatchType: model.MatchExact}}, 0, time.Now())

	out, err := Render(d)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"# Scoreboard",
		"| 1 | [The Guardian](https://theguardian.com) | UK | 81 | 85 | 80 | 78 | +0.0 |",
		"| 2 | RT | RU | 60 |",
		"## Possible duplicates",
		"- **Reuters** (exact, 2 records): a, b",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render(Build("Empty", nil, nil, 10, time.Now()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "Possible duplicates") {
		t.Errorf("unexpected duplicates section:\n%s", out)
	}
	if !strings.Contains(out, "across 0 outlets: **n/a**") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}
