// Package booster evaluates gradient-boosted tree ensembles saved in the
// XGBoost JSON model format (Booster.save_model("model.json")).
package booster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrUnsupported is returned for models this package cannot evaluate
	ErrUnsupported = errors.New("booster: unsupported model")
	// ErrInputWidth is returned when a row does not match the model width
	ErrInputWidth = errors.New("booster: input width mismatch")
)

// link maps a raw margin to the objective's output space
type link int

const (
	linkIdentity link = iota
	linkExp
)

var objectives = map[string]link{
	"reg:squarederror":     linkIdentity,
	"reg:linear":           linkIdentity,
	"reg:squaredlogerror":  linkIdentity,
	"reg:pseudohubererror": linkIdentity,
	"reg:absoluteerror":    linkIdentity,
	"reg:gamma":            linkExp,
	"reg:tweedie":          linkExp,
	"count:poisson":        linkExp,
}

// Booster is a loaded tree ensemble. It is immutable and safe for
// concurrent use.
type Booster struct {
	trees        []tree
	baseMargin   float32
	numFeature   int
	featureNames []string
	objective    string
	link         link
	version      []int
}

// Load reads and parses a JSON model file
func Load(path string) (*Booster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("booster: read model: %w", err)
	}
	return Parse(data)
}

// Parse builds a Booster from the JSON model document
func Parse(data []byte) (*Booster, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("booster: decode model: %w", err)
	}

	l := doc.Learner
	if l.GradientBooster.Name != "gbtree" {
		return nil, fmt.Errorf("%w: booster type %q", ErrUnsupported, l.GradientBooster.Name)
	}

	lk, ok := objectives[l.Objective.Name]
	if !ok {
		return nil, fmt.Errorf("%w: objective %q", ErrUnsupported, l.Objective.Name)
	}

	params := l.LearnerModelParam
	if n, err := intParam(params.NumClass, 0); err != nil || n > 1 {
		return nil, fmt.Errorf("%w: num_class %q", ErrUnsupported, params.NumClass)
	}
	if n, err := intParam(params.NumTarget, 1); err != nil || n != 1 {
		return nil, fmt.Errorf("%w: num_target %q", ErrUnsupported, params.NumTarget)
	}

	numFeature, err := intParam(params.NumFeature, -1)
	if err != nil || numFeature < 0 {
		return nil, fmt.Errorf("booster: invalid num_feature %q", params.NumFeature)
	}
	if len(l.FeatureNames) > 0 && len(l.FeatureNames) != numFeature {
		return nil, fmt.Errorf("booster: %d feature names for num_feature %d", len(l.FeatureNames), numFeature)
	}

	base, err := parseBaseScore(params.BaseScore)
	if err != nil {
		return nil, err
	}
	margin := base
	if lk == linkExp {
		if base <= 0 {
			return nil, fmt.Errorf("booster: base_score %g invalid for %s", base, l.Objective.Name)
		}
		margin = math.Log(base)
	}

	trees := make([]tree, 0, len(l.GradientBooster.Model.Trees))
	for i, jt := range l.GradientBooster.Model.Trees {
		t, err := newTree(jt, numFeature)
		if err != nil {
			return nil, fmt.Errorf("booster: tree %d: %w", i, err)
		}
		trees = append(trees, t)
	}
	if len(trees) == 0 {
		return nil, errors.New("booster: model has no trees")
	}

	return &Booster{
		trees:        trees,
		baseMargin:   float32(margin),
		numFeature:   numFeature,
		featureNames: append([]string(nil), l.FeatureNames...),
		objective:    l.Objective.Name,
		link:         lk,
		version:      doc.Version,
	}, nil
}

// NumFeature returns the input width the model was trained on
func (b *Booster) NumFeature() int { return b.numFeature }

// NumTrees returns the number of trees in the ensemble
func (b *Booster) NumTrees() int { return len(b.trees) }

// Objective returns the training objective name
func (b *Booster) Objective() string { return b.objective }

// Version returns the XGBoost version that wrote the model, if recorded
func (b *Booster) Version() string {
	parts := make([]string, len(b.version))
	for i, v := range b.version {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// FeatureNames returns the training feature names, or nil if the model
// was trained without them.
func (b *Booster) FeatureNames() []string {
	if len(b.featureNames) == 0 {
		return nil
	}
	return append([]string(nil), b.featureNames...)
}

// PredictMargin sums the base margin and the leaf of every tree.
// NaN entries are treated as missing values.
func (b *Booster) PredictMargin(row []float32) (float32, error) {
	if len(row) != b.numFeature {
		return 0, fmt.Errorf("%w: got %d values, model expects %d", ErrInputWidth, len(row), b.numFeature)
	}
	sum := b.baseMargin
	for i := range b.trees {
		sum += b.trees[i].leaf(row)
	}
	return sum, nil
}

// Predict returns the prediction in the objective's output space
func (b *Booster) Predict(row []float32) (float64, error) {
	m, err := b.PredictMargin(row)
	if err != nil {
		return 0, err
	}
	if b.link == linkExp {
		return float64(float32(math.Exp(float64(m)))), nil
	}
	return float64(m), nil
}

// parseBaseScore accepts both "5E-1" and the bracketed "[5E-1]" form
// written by XGBoost 2.x.
func parseBaseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0.5, nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.Contains(s, ",") {
		return 0, fmt.Errorf("%w: vector base_score %q", ErrUnsupported, s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("booster: invalid base_score %q: %w", s, err)
	}
	return v, nil
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
