package dataimport

import (
	"github.com/mugiliam/hatchworkbench/internal/apperrors"
	"github.com/mugiliam/hatchworkbench/pkg/types"
)

// Baselines is the ordered table of reader commands an import can be
// expressed with. Order matters: on equal similarity the earlier entry wins.
type Baselines []types.BaselineProfile

// DefaultBaselines returns the table used when configuration supplies none.
func DefaultBaselines() Baselines {
	return Baselines{
		{Label: "read.table", FormatProfile: types.FormatProfile{Header: false, Sep: "", Quote: "\"'"}},
		{Label: "read.csv", FormatProfile: types.FormatProfile{Header: true, Sep: ",", Quote: "\""}},
		{Label: "read.delim", FormatProfile: types.FormatProfile{Header: true, Sep: "\t", Quote: "\""}},
	}
}

// NewBaselines checks and copies profiles into a Baselines table.
func NewBaselines(profiles ...types.BaselineProfile) (Baselines, apperrors.Error) {
	if len(profiles) == 0 {
		return nil, ErrInvalidBaselines.Msg("no baseline profiles")
	}
	seen := make(map[string]struct{}, len(profiles))
	b := make(Baselines, 0, len(profiles))
	for _, p := range profiles {
		if p.Label == "" {
			return nil, ErrInvalidBaselines.Msg("baseline profile without a label")
		}
		if _, ok := seen[p.Label]; ok {
			return nil, ErrInvalidBaselines.Msg("duplicate baseline profile " + p.Label)
		}
		seen[p.Label] = struct{}{}
		b = append(b, p)
	}
	return b, nil
}

// Lookup returns the format profile of the baseline with the given label.
func (b Baselines) Lookup(label string) (types.FormatProfile, bool) {
	for _, p := range b {
		if p.Label == label {
			return p.FormatProfile, true
		}
	}
	return types.FormatProfile{}, false
}

// Labels returns the baseline labels in preference order.
func (b Baselines) Labels() []string {
	labels := make([]string, 0, len(b))
	for _, p := range b {
		labels = append(labels, p.Label)
	}
	return labels
}

// Similarity counts the attributes on which a and b agree.
func Similarity(a, b types.FormatProfile) int {
	score := 0
	if a.Header == b.Header {
		score++
	}
	if a.Sep == b.Sep {
		score++
	}
	if a.Quote == b.Quote {
		score++
	}
	return score
}

// SelectBaseline returns the label of the baseline most similar to request.
// Ties go to the baseline listed first. Returns "" for an empty table.
func SelectBaseline(request types.FormatProfile, baselines Baselines) string {
	label := ""
	best := -1
	for _, p := range baselines {
		if score := Similarity(request, p.FormatProfile); score > best {
			best = score
			label = p.Label
		}
	}
	return label
}
