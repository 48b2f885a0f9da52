package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/shoplist/internal/store"
)

var _ store.Recorder = (*Metrics)(nil)

func TestCountsStoreActivity(t *testing.T) {
	ctx := context.Background()
	m := New()
	s := store.New(store.WithRecorder(m))

	milk, err := s.Add(ctx, "milk")
	require.NoError(t, err)
	_, err = s.Add(ctx, "bread")
	require.NoError(t, err)
	_, err = s.Add(ctx, "")
	require.Error(t, err)
	require.NoError(t, s.Remove(ctx, milk.ID))
	require.NoError(t, s.Remove(ctx, milk.ID))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues(store.OpAdd, store.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues(store.OpAdd, store.ResultRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues(store.OpRemove, store.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues(store.OpRemove, store.ResultNoop)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.items))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Mutation(store.OpAdd, store.ResultOK)
	m.Items(3)

	path := filepath.Join(t.TempDir(), "shoplist.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `shoplist_store_mutations_total{op="add",result="ok"} 1`)
	assert.Contains(t, out, "shoplist_store_items 3")
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.Items(0)
	n, err := testutil.GatherAndCount(m.Registry(), "shoplist_store_items")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
