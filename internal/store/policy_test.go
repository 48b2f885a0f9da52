package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/shoplist/internal/model"
)

func TestPolicies(t *testing.T) {
	existing := []model.Item{{ID: 1, Name: "Milk"}, {ID: 2, Name: "bread"}}

	tests := []struct {
		name    string
		policy  NamePolicy
		input   string
		wantDup bool
	}{
		{name: "allow exact", policy: AllowDuplicates{}, input: "Milk"},
		{name: "unique exact", policy: UniqueNames{}, input: "Milk", wantDup: true},
		{name: "unique case-insensitive", policy: UniqueNames{}, input: "BREAD", wantDup: true},
		{name: "unique new", policy: UniqueNames{}, input: "eggs"},
		{name: "unique typo passes", policy: UniqueNames{}, input: "mlik"},
		{name: "similar typo", policy: SimilarNames{MaxDistance: 2}, input: "mlik", wantDup: true},
		{name: "similar one edit", policy: SimilarNames{MaxDistance: 1}, input: "breads", wantDup: true},
		{name: "similar far", policy: SimilarNames{MaxDistance: 1}, input: "cheese"},
		{name: "similar zero is unique", policy: SimilarNames{MaxDistance: 0}, input: "milk", wantDup: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Check(tt.input, existing)
			if tt.wantDup {
				require.ErrorIs(t, err, model.ErrDuplicateName)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("", 0)
	require.NoError(t, err)
	assert.Equal(t, AllowDuplicates{}, p)

	p, err = ParsePolicy(" Unique ", 0)
	require.NoError(t, err)
	assert.Equal(t, UniqueNames{}, p)

	p, err = ParsePolicy("similar", 3)
	require.NoError(t, err)
	assert.Equal(t, SimilarNames{MaxDistance: 3}, p)

	_, err = ParsePolicy("similar", -1)
	require.Error(t, err)

	_, err = ParsePolicy("strict", 0)
	require.Error(t, err)
}
