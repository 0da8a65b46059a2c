package model

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldSpec describes one StudentProfile form field and its allowed range.
type FieldSpec struct {
	Name string
	Min  int
	Max  int
}

// ProfileFields lists the form fields in model feature order.
var ProfileFields = []FieldSpec{
	{"sex", 0, 1},
	{"age", 15, 22},
	{"address", 0, 1},
	{"famsize", 0, 1},
	{"Pstatus", 0, 1},
	{"Medu", 0, 4},
	{"Fedu", 0, 4},
	{"Mjob", 0, 4},
	{"Fjob", 0, 4},
	{"reason", 0, 3},
	{"guardian", 0, 2},
	{"traveltime", 1, 4},
	{"studytime", 1, 4},
	{"failures", 0, 4},
	{"schoolsup", 0, 1},
	{"famsup", 0, 1},
	{"paid", 0, 1},
	{"activities", 0, 1},
	{"nursery", 0, 1},
	{"higher", 0, 1},
	{"internet", 0, 1},
	{"romantic", 0, 1},
	{"famrel", 1, 5},
	{"freetime", 1, 5},
	{"goout", 1, 5},
	{"health", 1, 5},
	{"absences", 0, 93},
}

// StudentProfile is the set of 27 attributes collected by the analysis form.
type StudentProfile struct {
	Sex        int
	Age        int
	Address    int
	FamSize    int
	PStatus    int
	MEdu       int
	FEdu       int
	MJob       int
	FJob       int
	Reason     int
	Guardian   int
	TravelTime int
	StudyTime  int
	Failures   int
	SchoolSup  int
	FamSup     int
	Paid       int
	Activities int
	Nursery    int
	Higher     int
	Internet   int
	Romantic   int
	FamRel     int
	FreeTime   int
	GoOut      int
	Health     int
	Absences   int
}

// fields returns pointers to the profile values in ProfileFields order.
func (p *StudentProfile) fields() []*int {
	return []*int{
		&p.Sex, &p.Age, &p.Address, &p.FamSize, &p.PStatus,
		&p.MEdu, &p.FEdu, &p.MJob, &p.FJob, &p.Reason,
		&p.Guardian, &p.TravelTime, &p.StudyTime, &p.Failures, &p.SchoolSup,
		&p.FamSup, &p.Paid, &p.Activities, &p.Nursery, &p.Higher,
		&p.Internet, &p.Romantic, &p.FamRel, &p.FreeTime, &p.GoOut,
		&p.Health, &p.Absences,
	}
}

// ParseProfile builds a StudentProfile from form values. get is typically
// (*http.Request).FormValue. Every field is required and range-checked.
func ParseProfile(get func(string) string) (StudentProfile, error) {
	var p StudentProfile
	ptrs := p.fields()
	for i, f := range ProfileFields {
		raw := strings.TrimSpace(get(f.Name))
		if raw == "" {
			return StudentProfile{}, fmt.Errorf("%w: missing field %q", ErrInvalidProfile, f.Name)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return StudentProfile{}, fmt.Errorf("%w: field %q is not an integer", ErrInvalidProfile, f.Name)
		}
		if v < f.Min || v > f.Max {
			return StudentProfile{}, fmt.Errorf("%w: field %q must be between %d and %d", ErrInvalidProfile, f.Name, f.Min, f.Max)
		}
		*ptrs[i] = v
	}
	return p, nil
}

// Features returns the profile as a model input vector.
func (p StudentProfile) Features() []float64 {
	ptrs := p.fields()
	out := make([]float64, len(ptrs))
	for i, v := range ptrs {
		out[i] = float64(*v)
	}
	return out
}

// SexLabel maps the binary sex field to a display label.
func (p StudentProfile) SexLabel() string {
	if p.Sex == 0 {
		return "Female"
	}
	return "Male"
}

// AddressLabel maps the binary address field to a display label.
func (p StudentProfile) AddressLabel() string {
	if p.Address == 1 {
		return "Urban"
	}
	return "Rural"
}

// FamSizeLabel maps the binary family size field to a display label.
func (p StudentProfile) FamSizeLabel() string {
	if p.FamSize == 1 {
		return "Large (>3)"
	}
	return "Small (≤3)"
}

// PStatusLabel maps the binary parent cohabitation field to a display label.
func (p StudentProfile) PStatusLabel() string {
	if p.PStatus == 1 {
		return "Living together"
	}
	return "Apart"
}

// YesNo renders a binary flag.
func YesNo(v int) string {
	if v == 1 {
		return "Yes"
	}
	return "No"
}

var (
	jobLabels      = []string{"At home", "Health care", "Other", "Civil services", "Teacher"}
	reasonLabels   = []string{"Course preference", "Close to home", "Other", "School reputation"}
	guardianLabels = []string{"Father", "Mother", "Other"}
)

func label(labels []string, v int) string {
	if v < 0 || v >= len(labels) {
		return "Unknown"
	}
	return labels[v]
}

// JobLabel maps an encoded parent occupation to a display label.
func JobLabel(v int) string { return label(jobLabels, v) }

// ReasonLabel maps the encoded school choice reason to a display label.
func ReasonLabel(v int) string { return label(reasonLabels, v) }

// GuardianLabel maps the encoded guardian to a display label.
func GuardianLabel(v int) string { return label(guardianLabels, v) }
