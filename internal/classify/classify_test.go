package classify

import (
	"math"
	"testing"

	"github.com/pavelanni/eduimpact/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		scores model.ScoreTriple
		want   model.Category
	}{
		{"all excellent", model.ScoreTriple{16, 16, 16}, model.CategoryGood},
		{"all pass, one not excellent", model.ScoreTriple{11, 16, 16}, model.CategoryGoodCanBeBetter},
		{"one fail", model.ScoreTriple{5, 16, 16}, model.CategoryScope},
		{"two fail", model.ScoreTriple{5, 5, 16}, model.CategoryCanBeBetter},
		{"all fail", model.ScoreTriple{5, 5, 5}, model.CategoryWorkHardest},
		{"exactly pass mark", model.ScoreTriple{10, 10, 10}, model.CategoryGoodCanBeBetter},
		{"exactly excellent mark", model.ScoreTriple{15, 16, 16}, model.CategoryGoodCanBeBetter},
		{"just under pass", model.ScoreTriple{9.99, 12, 12}, model.CategoryScope},
		{"negative scores", model.ScoreTriple{-3, -1, 0}, model.CategoryWorkHardest},
		{"NaN fails", model.ScoreTriple{math.NaN(), 16, 16}, model.CategoryScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.scores); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.scores, got, tt.want)
			}
		})
	}
}

func TestClassifyOrderIndependent(t *testing.T) {
	triples := []model.ScoreTriple{
		{5, 11, 16},
		{10, 15, 15.5},
		{0, 9.9, 20},
		{16, 16, 14},
	}
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	for _, s := range triples {
		want := Classify(s)
		for _, p := range perms {
			permuted := model.ScoreTriple{s[p[0]], s[p[1]], s[p[2]]}
			if got := Classify(permuted); got != want {
				t.Errorf("Classify(%v) = %q, want %q (from %v)", permuted, got, want, s)
			}
		}
	}
}

func TestClassifyTotal(t *testing.T) {
	valid := make(map[model.Category]bool)
	for _, c := range model.Categories {
		valid[c] = true
	}
	for a := -5.0; a <= 25; a += 2.5 {
		for b := -5.0; b <= 25; b += 2.5 {
			for c := -5.0; c <= 25; c += 2.5 {
				got := Classify(model.ScoreTriple{a, b, c})
				if !valid[got] {
					t.Fatalf("Classify(%v, %v, %v) returned unknown category %q", a, b, c, got)
				}
			}
		}
	}
}
