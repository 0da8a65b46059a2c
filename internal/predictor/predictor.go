// Package predictor loads the exported regression model and computes the
// three predicted scores for a feature vector.
//
// The artifact is JSON, optionally gzip-compressed, holding a standard
// scaler (mean and scale per feature) and a multi-output linear model
// (one coefficient row and intercept per score).
package predictor

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pavelanni/eduimpact/internal/model"
)

// ErrFeatureCount is returned when a feature vector has the wrong length.
var ErrFeatureCount = errors.New("wrong number of features")

// ErrOutputCount is returned when an artifact does not describe exactly one
// coefficient row and one intercept per predicted score.
var ErrOutputCount = errors.New("wrong number of outputs")

// outputs is the number of predicted scores.
const outputs = len(model.ScoreTriple{})

// Predictor maps a feature vector to three scores.
type Predictor interface {
	Predict(features []float64) (model.ScoreTriple, error)
}

// Artifact is the on-disk model layout.
type Artifact struct {
	Features     []string    `json:"features"`
	Mean         []float64   `json:"mean"`
	Scale        []float64   `json:"scale"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

// Linear is a scaler followed by a linear regression. It is read-only after
// Load and safe for concurrent use.
type Linear struct {
	a          Artifact
	intercepts model.ScoreTriple
}

// Load reads the artifact at path.
func Load(path string) (*Linear, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return l, nil
}

// Decode reads an artifact from r, detecting gzip by its magic bytes.
func Decode(r io.Reader) (*Linear, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var a Artifact
	if err := json.NewDecoder(src).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	l := &Linear{a: a}
	copy(l.intercepts[:], a.Intercepts)
	return l, nil
}

func (a Artifact) validate() error {
	n := len(model.ProfileFields)
	if len(a.Features) != 0 && len(a.Features) != n {
		return fmt.Errorf("%w: artifact names %d features, want %d", ErrFeatureCount, len(a.Features), n)
	}
	for i, name := range a.Features {
		if name != model.ProfileFields[i].Name {
			return fmt.Errorf("feature %d is %q, want %q", i, name, model.ProfileFields[i].Name)
		}
	}
	if len(a.Mean) != n || len(a.Scale) != n {
		return fmt.Errorf("%w: scaler has %d/%d values, want %d", ErrFeatureCount, len(a.Mean), len(a.Scale), n)
	}
	if len(a.Coefficients) != outputs {
		return fmt.Errorf("%w: %d coefficient rows, want %d", ErrOutputCount, len(a.Coefficients), outputs)
	}
	if len(a.Intercepts) != outputs {
		return fmt.Errorf("%w: %d intercepts, want %d", ErrOutputCount, len(a.Intercepts), outputs)
	}
	for k, row := range a.Coefficients {
		if len(row) != n {
			return fmt.Errorf("%w: coefficient row %d has %d values, want %d", ErrFeatureCount, k, len(row), n)
		}
	}
	return nil
}

// Predict scales features and applies the linear model.
func (l *Linear) Predict(features []float64) (model.ScoreTriple, error) {
	var out model.ScoreTriple
	if len(features) != len(l.a.Mean) {
		return out, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(features), len(l.a.Mean))
	}

	scaled := make([]float64, len(features))
	for i, x := range features {
		scale := l.a.Scale[i]
		if scale == 0 || math.IsNaN(scale) {
			scale = 1
		}
		scaled[i] = (x - l.a.Mean[i]) / scale
	}

	for k, row := range l.a.Coefficients {
		y := l.intercepts[k]
		for i, c := range row {
			y += c * scaled[i]
		}
		out[k] = y
	}
	return out, nil
}
