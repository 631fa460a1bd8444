package store

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/flowbridge/service/dao"
)

type record struct {
	ID    string
	State string
	Tags  []string
}

func recordKey(r *record) string { return r.ID }

func recordFields(r *record) map[string]string {
	return map[string]string{dao.ParamID: r.ID, dao.ParamState: r.State}
}

func newStores(t *testing.T) map[string]dao.Service[string, record] {
	fsStore, err := NewFS[record](afs.New(), "mem://localhost/flowbridge/store_test", recordKey, recordFields, nil)
	require.NoError(t, err)
	clone := func(r *record) *record {
		c := *r
		c.Tags = append([]string(nil), r.Tags...)
		return &c
	}
	return map[string]dao.Service[string, record]{
		"memory": NewMemory[record](recordKey, clone, recordFields),
		"fs":     fsStore,
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, &record{ID: "r1", State: "waiting", Tags: []string{"a"}}))
			require.NoError(t, store.Save(ctx, &record{ID: "r2", State: "active"}))

			loaded, err := store.Load(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, "waiting", loaded.State)
			loaded.Tags[0] = "mutated"
			again, err := store.Load(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, "a", again.Tags[0])

			waiting, err := store.List(ctx, dao.NewParameter(dao.ParamState, "waiting"))
			require.NoError(t, err)
			require.Len(t, waiting, 1)
			assert.Equal(t, "r1", waiting[0].ID)

			all, err := store.List(ctx)
			require.NoError(t, err)
			ids := []string{}
			for _, item := range all {
				ids = append(ids, item.ID)
			}
			sort.Strings(ids)
			assert.Equal(t, []string{"r1", "r2"}, ids)

			require.NoError(t, store.Delete(ctx, "r1"))
			_, err = store.Load(ctx, "r1")
			assert.True(t, errors.Is(err, dao.ErrNotFound))
			assert.True(t, errors.Is(store.Delete(ctx, "r1"), dao.ErrNotFound))

			assert.True(t, errors.Is(store.Save(ctx, nil), dao.ErrNilEntity))
			assert.True(t, errors.Is(store.Save(ctx, &record{}), dao.ErrInvalidID))
			require.NoError(t, store.Delete(ctx, "r2"))
		})
	}
}
