package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain", raw: "milk", want: "milk"},
		{name: "trimmed", raw: "  bread \t", want: "bread"},
		{name: "inner spaces kept", raw: "olive oil", want: "olive oil"},
		{name: "empty", raw: "", wantErr: ErrEmptyName},
		{name: "blank", raw: "   \n", wantErr: ErrEmptyName},
		{name: "at limit", raw: strings.Repeat("é", MaxNameLength), want: strings.Repeat("é", MaxNameLength)},
		{name: "too long", raw: strings.Repeat("a", MaxNameLength+1), wantErr: ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeName(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshotIsolatedFromSource(t *testing.T) {
	src := []Item{{ID: 1, Name: "milk"}, {ID: 2, Name: "bread"}}
	snap := NewSnapshot(src)

	src[0].Name = "changed"
	require.Equal(t, "milk", snap.At(0).Name)

	out := snap.Items()
	out[1].Name = "changed"
	require.Equal(t, "bread", snap.At(1).Name)
}

func TestSnapshotLookup(t *testing.T) {
	snap := NewSnapshot([]Item{{ID: 3, Name: "eggs"}, {ID: 7, Name: "tea"}})

	require.Equal(t, 2, snap.Len())
	it, ok := snap.Find(7)
	require.True(t, ok)
	assert.Equal(t, "tea", it.Name)
	assert.True(t, snap.Contains(3))
	assert.False(t, snap.Contains(4))
}

func TestZeroSnapshotIsEmpty(t *testing.T) {
	var snap Snapshot
	assert.Equal(t, 0, snap.Len())
	assert.Empty(t, snap.Items())
	assert.False(t, snap.Contains(1))
}
