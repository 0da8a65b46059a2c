package views

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/pavelanni/eduimpact/internal/dataset"
	"github.com/pavelanni/eduimpact/internal/i18n"
	"github.com/pavelanni/eduimpact/internal/model"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("en"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(i18n.WithLang(context.Background(), "en"), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func TestErrorPageEscapesMessage(t *testing.T) {
	body := render(t, ErrorPage(400, `<b>bad</b> "input"`))

	if strings.Contains(body, "<b>bad</b>") {
		t.Error("message was not escaped")
	}
	for _, want := range []string{
		"<!doctype html>",
		`<html lang="en">`,
		"&lt;b&gt;bad&lt;/b&gt;",
		`<p class="muted">400</p>`,
		"Something went wrong",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestResultPageEmbedsNarrativeHTML(t *testing.T) {
	res := model.AnalysisResult{
		ID:       `id"1`,
		Category: model.CategoryScope,
		Scores:   model.ScoreTriple{10.04, 11.96, 9},
		Source:   model.SourceRules,
		HTML:     "<p><strong>ok</strong></p>",
	}
	body := render(t, ResultPage(res))

	for _, want := range []string{
		`<p class="category" id="category">Scope of improvement</p>`,
		"Period 1 <strong>10.0</strong>",
		"<strong>12.0</strong>",
		"<strong>9.0</strong>",
		`data-id="id&#34;1"`,
		"<p><strong>ok</strong></p>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestArchivePagePager(t *testing.T) {
	tests := []struct {
		name    string
		page    dataset.Page
		want    []string
		notWant []string
	}{
		{
			name: "first page",
			page: dataset.Page{Columns: []string{"age"}, Rows: [][]string{{"<17>"}}, Number: 1, TotalPages: 4, TotalRecords: 100},
			want: []string{
				"100 records",
				"Page 1 of 4",
				"<th>age</th>",
				"<td>&lt;17&gt;</td>",
				"<strong>1</strong>",
				`<a href="/archive?page=3">3</a>`,
				`<a href="/archive?page=2">Next</a>`,
			},
			notWant: []string{"Previous", `href="/archive?page=4">4`},
		},
		{
			name:    "last page",
			page:    dataset.Page{Columns: []string{"age"}, Number: 4, TotalPages: 4, TotalRecords: 100},
			want:    []string{`<a href="/archive?page=3">Previous</a>`, "<strong>4</strong>", `<a href="/archive?page=2">2</a>`},
			notWant: []string{">Next<"},
		},
		{
			name: "single record",
			page: dataset.Page{Columns: []string{"age"}, Number: 1, TotalPages: 1, TotalRecords: 1},
			want: []string{"1 record", "Page 1 of 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := render(t, ArchivePage(tt.page))
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(body, nw) {
					t.Errorf("body should not contain %q", nw)
				}
			}
		})
	}
}

func TestAnalysisPageListsEveryField(t *testing.T) {
	body := render(t, AnalysisPage())

	for _, f := range model.ProfileFields {
		want := fmt.Sprintf(`name="%s" min="%d" max="%d"`, f.Name, f.Min, f.Max)
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}
