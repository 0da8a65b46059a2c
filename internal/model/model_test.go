package model

import (
	"errors"
	"strconv"
	"testing"
)

func validForm() map[string]string {
	form := make(map[string]string, len(ProfileFields))
	for _, f := range ProfileFields {
		form[f.Name] = strconv.Itoa(f.Min)
	}
	form["age"] = "17"
	form["absences"] = "4"
	return form
}

func TestParseProfile(t *testing.T) {
	form := validForm()
	p, err := ParseProfile(func(k string) string { return form[k] })
	if err != nil {
		t.Fatalf("ParseProfile: %v", err)
	}
	if p.Age != 17 {
		t.Errorf("Age = %d, want 17", p.Age)
	}
	if p.Absences != 4 {
		t.Errorf("Absences = %d, want 4", p.Absences)
	}

	feats := p.Features()
	if len(feats) != 27 {
		t.Fatalf("expected 27 features, got %d", len(feats))
	}
	if feats[1] != 17 || feats[26] != 4 {
		t.Errorf("features out of order: %v", feats)
	}
}

func TestParseProfileErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"missing", "Medu", ""},
		{"not a number", "studytime", "two"},
		{"below range", "health", "0"},
		{"above range", "sex", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form[tt.field] = tt.value
			_, err := ParseProfile(func(k string) string { return form[k] })
			if !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	p := StudentProfile{Sex: 0, Address: 1, FamSize: 0, PStatus: 1}
	if p.SexLabel() != "Female" {
		t.Errorf("SexLabel = %q", p.SexLabel())
	}
	if p.AddressLabel() != "Urban" {
		t.Errorf("AddressLabel = %q", p.AddressLabel())
	}
	if p.FamSizeLabel() != "Small (≤3)" {
		t.Errorf("FamSizeLabel = %q", p.FamSizeLabel())
	}
	if p.PStatusLabel() != "Living together" {
		t.Errorf("PStatusLabel = %q", p.PStatusLabel())
	}
	p.Sex = 1
	if p.SexLabel() != "Male" {
		t.Errorf("SexLabel = %q", p.SexLabel())
	}
	if YesNo(1) != "Yes" || YesNo(0) != "No" {
		t.Error("YesNo mismatch")
	}
}

func TestScoreTripleString(t *testing.T) {
	s := ScoreTriple{12.345, 14, 9.96}
	if got := s.String(); got != "[12.3, 14.0, 10.0]" {
		t.Errorf("String() = %q", got)
	}
}
