package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esteban2806/tienda-carrito/storage"
)

// stubFetcher counts fetches and returns a fixed dataset or an error.
type stubFetcher struct {
	products []Product
	err      error
	calls    int
}

func (f *stubFetcher) Fetch(context.Context) ([]Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func newTestStore(fetcher Fetcher) (*Store, *storage.MemStore) {
	docs := storage.NewMemStore()
	return NewStore(docs, fetcher, nil), docs
}

func TestStoreLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields empty list", func(t *testing.T) {
		store, _ := newTestStore(&stubFetcher{})
		assert.Empty(t, store.Load(ctx))
	})

	t.Run("malformed document is swallowed", func(t *testing.T) {
		store, docs := newTestStore(&stubFetcher{})
		docs.PutRaw(storage.KeyProducts, []byte(`{"not": "a list"}`))
		assert.Empty(t, store.Load(ctx))
	})

	t.Run("persisted list comes back sanitized", func(t *testing.T) {
		store, docs := newTestStore(&stubFetcher{})
		docs.PutRaw(storage.KeyProducts, []byte(`[{"id": "a", "stock": -4}, {"name": "no id"}]`))

		products := store.Load(ctx)
		require.Len(t, products, 1)
		assert.Equal(t, "a", products[0].ID)
		assert.Equal(t, 0, products[0].Stock)
	})
}

func TestStoreEnsureLoaded(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds once and only once", func(t *testing.T) {
		fetcher := &stubFetcher{products: []Product{{ID: "a", Name: "Uno", Category: "General"}}}
		store, _ := newTestStore(fetcher)

		first, err := store.EnsureLoaded(ctx)
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.Equal(t, 1, fetcher.calls)

		second, err := store.EnsureLoaded(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, fetcher.calls, "second call must not refetch")
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		fetcher := &stubFetcher{err: errors.New("boom")}
		store, _ := newTestStore(fetcher)

		_, err := store.EnsureLoaded(ctx)
		require.Error(t, err)
	})

	t.Run("existing catalog is returned unchanged", func(t *testing.T) {
		fetcher := &stubFetcher{products: []Product{{ID: "default"}}}
		store, _ := newTestStore(fetcher)
		require.NoError(t, store.Save(ctx, []Product{{ID: "mine", Name: "Mío", Category: "General"}}))

		products, err := store.EnsureLoaded(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "mine", products[0].ID)
		assert.Equal(t, 0, fetcher.calls)
	})
}

func TestStoreResetFromDefault(t *testing.T) {
	ctx := context.Background()

	fetcher := &stubFetcher{products: []Product{{ID: "seed", Name: "Semilla", Category: "General"}}}
	store, _ := newTestStore(fetcher)
	require.NoError(t, store.Save(ctx, []Product{{ID: "mine", Name: "Mío", Category: "General"}}))

	products, err := store.ResetFromDefault(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "seed", products[0].ID)
	assert.Equal(t, 1, fetcher.calls)

	// Reset always refetches.
	_, err = store.ResetFromDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestStoreUpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(&stubFetcher{})

	t.Run("rejects missing id or name", func(t *testing.T) {
		_, err := store.Upsert(ctx, Product{Name: "sin id"})
		assert.ErrorIs(t, err, ErrInvalidProduct)

		_, err = store.Upsert(ctx, Product{ID: "x"})
		assert.ErrorIs(t, err, ErrInvalidProduct)
	})

	t.Run("new product is prepended", func(t *testing.T) {
		_, err := store.Upsert(ctx, Product{ID: "a", Name: "Primero"})
		require.NoError(t, err)

		products, err := store.Upsert(ctx, Product{ID: "b", Name: "Segundo"})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "b", products[0].ID)
	})

	t.Run("existing product is replaced in place", func(t *testing.T) {
		products, err := store.Upsert(ctx, Product{ID: "a", Name: "Editado", Stock: 4})
		require.NoError(t, err)
		require.Len(t, products, 2)

		p := FindByID(products, "a")
		require.NotNil(t, p)
		assert.Equal(t, "Editado", p.Name)
		assert.Equal(t, 4, p.Stock)
	})

	t.Run("remove deletes by id", func(t *testing.T) {
		products, err := store.Remove(ctx, "a")
		require.NoError(t, err)
		assert.Nil(t, FindByID(products, "a"))
	})

	t.Run("remove of unknown id is a no-op", func(t *testing.T) {
		before := store.Load(ctx)
		after, err := store.Remove(ctx, "ghost")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestStoreExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(&stubFetcher{})

	seed := []Product{
		{ID: "a", Name: "Uno", Price: 10.5, Category: "General", Stock: 3},
		{ID: "b", Name: "Dos", Price: 4, Category: "Hogar", Stock: 0, Description: "usado"},
	}
	require.NoError(t, store.Save(ctx, seed))

	var exported bytes.Buffer
	require.NoError(t, store.Export(ctx, &exported))

	imported, err := store.Import(ctx, bytes.NewReader(exported.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, seed, imported)
	assert.Equal(t, seed, store.Load(ctx))
}

func TestStoreImport(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-list documents", func(t *testing.T) {
		store, _ := newTestStore(&stubFetcher{})
		require.NoError(t, store.Save(ctx, []Product{{ID: "keep", Name: "K", Category: "General"}}))

		_, err := store.Import(ctx, bytes.NewReader([]byte(`{"id": "a"}`)))
		require.Error(t, err)

		// Failed import leaves the catalog untouched.
		products := store.Load(ctx)
		require.Len(t, products, 1)
		assert.Equal(t, "keep", products[0].ID)
	})

	t.Run("replaces the entire catalog", func(t *testing.T) {
		store, _ := newTestStore(&stubFetcher{})
		require.NoError(t, store.Save(ctx, []Product{{ID: "old", Name: "Viejo", Category: "General"}}))

		imported, err := store.Import(ctx, bytes.NewReader([]byte(`[{"id": "new", "name": "Nuevo"}]`)))
		require.NoError(t, err)
		require.Len(t, imported, 1)
		assert.Equal(t, "new", imported[0].ID)
		assert.Nil(t, FindByID(store.Load(ctx), "old"))
	})
}

func TestStoreImportGlob(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	write("one.json", `[{"id": "a", "name": "Uno"}]`)
	write("two.json", `[{"id": "b", "name": "Dos"}]`)
	write("skip.txt", `not json`)

	t.Run("concatenates all matched documents", func(t *testing.T) {
		store, _ := newTestStore(&stubFetcher{})
		products, err := store.ImportGlob(ctx, filepath.Join(dir, "*.json"))
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("no matches is an error", func(t *testing.T) {
		store, _ := newTestStore(&stubFetcher{})
		_, err := store.ImportGlob(ctx, filepath.Join(dir, "*.yaml"))
		require.Error(t, err)
	})

	t.Run("one malformed file aborts the import", func(t *testing.T) {
		write("bad.json", `{"not": "a list"}`)
		store, _ := newTestStore(&stubFetcher{})
		require.NoError(t, store.Save(ctx, []Product{{ID: "keep", Name: "K", Category: "General"}}))

		_, err := store.ImportGlob(ctx, filepath.Join(dir, "*.json"))
		require.Error(t, err)

		products := store.Load(ctx)
		require.Len(t, products, 1)
		assert.Equal(t, "keep", products[0].ID)
	})
}
