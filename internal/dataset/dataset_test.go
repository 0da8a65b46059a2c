package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, rows int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("sex,age,G1,G2,G3\n")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&sb, "%d,%d,%d,%d,%d\n", i%2, 15+i%7, i, i, i)
	}
	path := filepath.Join(t.TempDir(), "student_data.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestPagePagination(t *testing.T) {
	a := New(writeCSV(t, 65), 0)

	tests := []struct {
		name      string
		requested int
		wantPage  int
		wantRows  int
		firstG1   string
	}{
		{"first", 1, 1, 30, "1"},
		{"second", 2, 2, 30, "31"},
		{"last partial", 3, 3, 5, "61"},
		{"zero clamps to first", 0, 1, 30, "1"},
		{"negative clamps to first", -4, 1, 30, "1"},
		{"beyond clamps to last", 99, 3, 5, "61"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := a.Page(tt.requested)
			if err != nil {
				t.Fatalf("Page(%d): %v", tt.requested, err)
			}
			if p.Number != tt.wantPage {
				t.Errorf("Number = %d, want %d", p.Number, tt.wantPage)
			}
			if len(p.Rows) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(p.Rows), tt.wantRows)
			}
			if p.Rows[0][2] != tt.firstG1 {
				t.Errorf("first G1 = %q, want %q", p.Rows[0][2], tt.firstG1)
			}
			if p.TotalPages != 3 || p.TotalRecords != 65 {
				t.Errorf("totals = %d pages / %d records, want 3 / 65", p.TotalPages, p.TotalRecords)
			}
			if len(p.Columns) != 5 || p.Columns[0] != "sex" {
				t.Errorf("unexpected columns %v", p.Columns)
			}
		})
	}
}

func TestPageNavigation(t *testing.T) {
	a := New(writeCSV(t, 200), 10)

	p, err := a.Page(1)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if p.HasPrev() || !p.HasNext() {
		t.Errorf("page 1: HasPrev=%v HasNext=%v", p.HasPrev(), p.HasNext())
	}
	if got := p.Window(2); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Window = %v", got)
	}

	p, _ = a.Page(10)
	if got := p.Window(2); !slices.Equal(got, []int{8, 9, 10, 11, 12}) {
		t.Errorf("Window = %v", got)
	}

	p, _ = a.Page(20)
	if !p.HasPrev() || p.HasNext() {
		t.Errorf("last page: HasPrev=%v HasNext=%v", p.HasPrev(), p.HasNext())
	}
	if got := p.Window(2); !slices.Equal(got, []int{18, 19, 20}) {
		t.Errorf("Window = %v", got)
	}
}

func TestPageHeaderOnly(t *testing.T) {
	a := New(writeCSV(t, 0), 30)
	p, err := a.Page(5)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if p.Number != 1 || p.TotalPages != 1 || p.TotalRecords != 0 || len(p.Rows) != 0 {
		t.Errorf("unexpected page %+v", p)
	}
}

func TestNotFound(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "missing.csv"), 30)

	if _, err := a.Page(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Page: expected ErrNotFound, got %v", err)
	}
	if _, err := a.Open(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open: expected ErrNotFound, got %v", err)
	}
}

func TestOpenETag(t *testing.T) {
	path := writeCSV(t, 3)
	a := New(path, 30)

	f, err := a.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "sex,age") {
		t.Error("file should be rewound after hashing")
	}
	if len(f.ETag) != 34 || f.ETag[0] != '"' {
		t.Errorf("unexpected ETag %q", f.ETag)
	}

	f2, err := a.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f2.Close()
	if f2.ETag != f.ETag {
		t.Error("ETag should be stable for unchanged content")
	}

	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f3, err := a.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f3.Close()
	if f3.ETag == f.ETag {
		t.Error("ETag should change with content")
	}
}
