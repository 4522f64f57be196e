// Package report renders the outlet scoreboard as Markdown.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"freepress/internal/model"
)

type Row struct {
	Rank         int
	Name         string
	Website      string
	Country      string
	FreePress    int
	FactCheck    int
	Independence int
	Transparency int
	Bias         string
}

type Data struct {
	Title      string
	Datetime   string
	Total      int
	Average    string
	Rows       []Row
	Duplicates []model.DuplicateGroup
}

//go:embed report.tmpl
var reportTpl string

var compiled = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(reportTpl))

func Render(d Data) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Build ranks outlets by Free Press Score, highest first. Ties keep
// collection order. topN <= 0 includes every outlet.
func Build(title string, outlets []model.Outlet, groups []model.DuplicateGroup, topN int, now time.Time) Data {
	ranked := append([]model.Outlet(nil), outlets...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].FreePressScore > ranked[j].FreePressScore })

	d := Data{
		Title:      ExpandVars(title, now),
		Datetime:   now.UTC().Format("2006-01-02 15:04"),
		Total:      len(outlets),
		Average:    "n/a",
		Duplicates: groups,
	}
	if len(outlets) > 0 {
		sum := 0
		for _, o := range outlets {
			sum += o.FreePressScore
		}
		d.Average = fmt.Sprintf("%.1f", float64(sum)/float64(len(outlets)))
	}
	for i, o := range ranked {
		if topN > 0 && i >= topN {
			break
		}
		d.Rows = append(d.Rows, Row{
			Rank:         i + 1,
			Name:         o.Name,
			Website:      o.Website,
			Country:      o.Country,
			FreePress:    o.FreePressScore,
			FactCheck:    o.FactCheckAccuracy,
			Independence: o.EditorialIndependence,
			Transparency: o.Transparency,
			Bias:         fmt.Sprintf("%+.1f", o.BiasScore),
		})
	}
	return d
}

// ExpandVars performs simple placeholder substitutions in the report title.
//
// Supported variables:
// - {.CurrentDate} => formatted as YYYY-MM-DD (UTC)
func ExpandVars(s string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return strings.ReplaceAll(s, "{.CurrentDate}", now.UTC().Format("2006-01-02"))
}
