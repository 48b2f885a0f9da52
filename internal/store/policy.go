package store

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/shoplist/internal/model"
)

// NamePolicy decides whether name may join the existing items.
type NamePolicy interface {
	Check(name string, existing []model.Item) error
}

// Policy names accepted by ParsePolicy.
const (
	PolicyAllow   = "allow"
	PolicyUnique  = "unique"
	PolicySimilar = "similar"
)

// AllowDuplicates accepts every name.
type AllowDuplicates struct{}

func (AllowDuplicates) Check(string, []model.Item) error { return nil }

// UniqueNames rejects names already on the list, ignoring case.
type UniqueNames struct{}

func (UniqueNames) Check(name string, existing []model.Item) error {
	for _, it := range existing {
		if strings.EqualFold(it.Name, name) {
			return fmt.Errorf("%w: %q", model.ErrDuplicateName, it.Name)
		}
	}
	return nil
}

// SimilarNames rejects names within MaxDistance edits of an existing name,
// so "mlik" is refused while "milk" is listed.
type SimilarNames struct {
	MaxDistance int
}

func (p SimilarNames) Check(name string, existing []model.Item) error {
	lower := strings.ToLower(name)
	for _, it := range existing {
		if levenshtein.ComputeDistance(lower, strings.ToLower(it.Name)) <= p.MaxDistance {
			return fmt.Errorf("%w: %q", model.ErrDuplicateName, it.Name)
		}
	}
	return nil
}

// ParsePolicy maps a config value to a policy.
func ParsePolicy(kind string, maxDistance int) (NamePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", PolicyAllow:
		return AllowDuplicates{}, nil
	case PolicyUnique:
		return UniqueNames{}, nil
	case PolicySimilar:
		if maxDistance < 0 {
			return nil, fmt.Errorf("similar policy: negative distance %d", maxDistance)
		}
		return SimilarNames{MaxDistance: maxDistance}, nil
	default:
		return nil, fmt.Errorf("unknown name policy %q", kind)
	}
}
