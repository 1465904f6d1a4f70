package booster

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// document mirrors the subset of the XGBoost JSON schema needed for
// inference.
type document struct {
	Learner struct {
		FeatureNames    []string `json:"feature_names"`
		FeatureTypes    []string `json:"feature_types"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees    []jsonTree `json:"trees"`
				TreeInfo []int      `json:"tree_info"`
			} `json:"model"`
		} `json:"gradient_booster"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumClass   string `json:"num_class"`
			NumFeature string `json:"num_feature"`
			NumTarget  string `json:"num_target"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
	Version []int `json:"version"`
}

type jsonTree struct {
	LeftChildren    []int32    `json:"left_children"`
	RightChildren   []int32    `json:"right_children"`
	SplitIndices    []int32    `json:"split_indices"`
	SplitConditions []float64  `json:"split_conditions"`
	DefaultLeft     []flexBool `json:"default_left"`
	SplitType       []int      `json:"split_type"`
	TreeParam       struct {
		NumNodes string `json:"num_nodes"`
	} `json:"tree_param"`
}

// flexBool decodes both 0/1 and true/false, since default_left has been
// written either way across XGBoost releases.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1":
		*b = true
	case "false", "0":
		*b = false
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid boolean %s", data)
		}
		*b = n != 0
	}
	return nil
}

// tree stores nodes in struct-of-arrays form. For leaves, threshold holds
// the leaf value.
type tree struct {
	left        []int32
	right       []int32
	feature     []int32
	threshold   []float32
	defaultLeft []bool
}

func newTree(jt jsonTree, numFeature int) (tree, error) {
	n := len(jt.LeftChildren)
	if n == 0 {
		return tree{}, errors.New("empty tree")
	}
	if jt.TreeParam.NumNodes != "" {
		declared, err := strconv.Atoi(jt.TreeParam.NumNodes)
		if err != nil || declared != n {
			return tree{}, fmt.Errorf("num_nodes %q does not match %d nodes", jt.TreeParam.NumNodes, n)
		}
	}
	if len(jt.RightChildren) != n || len(jt.SplitIndices) != n ||
		len(jt.SplitConditions) != n || len(jt.DefaultLeft) != n {
		return tree{}, errors.New("node arrays differ in length")
	}
	for i, st := range jt.SplitType {
		if st != 0 && jt.LeftChildren[i] != -1 {
			return tree{}, fmt.Errorf("%w: categorical split at node %d", ErrUnsupported, i)
		}
	}

	t := tree{
		left:        jt.LeftChildren,
		right:       jt.RightChildren,
		feature:     jt.SplitIndices,
		threshold:   make([]float32, n),
		defaultLeft: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		t.threshold[i] = float32(jt.SplitConditions[i])
		t.defaultLeft[i] = bool(jt.DefaultLeft[i])

		l, r := t.left[i], t.right[i]
		if l == -1 {
			if r != -1 {
				return tree{}, fmt.Errorf("node %d has only one child", i)
			}
			continue
		}
		// Children are always allocated after their parent, which also
		// guarantees traversal terminates.
		if l <= int32(i) || r <= int32(i) || int(l) >= n || int(r) >= n {
			return tree{}, fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if f := t.feature[i]; f < 0 || int(f) >= numFeature {
			return tree{}, fmt.Errorf("node %d splits on feature %d of %d", i, f, numFeature)
		}
	}
	return t, nil
}

// leaf walks the tree for one row and returns the leaf value
func (t *tree) leaf(row []float32) float32 {
	i := int32(0)
	for t.left[i] != -1 {
		x := row[t.feature[i]]
		switch {
		case math.IsNaN(float64(x)):
			if t.defaultLeft[i] {
				i = t.left[i]
			} else {
				i = t.right[i]
			}
		case x < t.threshold[i]:
			i = t.left[i]
		default:
			i = t.right[i]
		}
	}
	return t.threshold[i]
}
