package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/venuedex/internal/db"
	"github.com/kailas-cloud/venuedex/internal/domain"
)

// --- Ensure ---

func TestEnsure_FreshInstall(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()
	col := testCollection(t)

	var hsetKey, createdIndex string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		hsetKey = key
		if fields["name"] != "businesses" || fields["vector_dim"] != "384" {
			t.Errorf("unexpected fields: %v", fields)
		}
		if fields["key_prefix"] != "venuedex:businesses:" {
			t.Errorf("unexpected key_prefix: %q", fields["key_prefix"])
		}
		return nil
	}
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		createdIndex = def.Name
		return nil
	}

	if err := repo.Ensure(ctx, col, testIndex(t, col)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hsetKey != "venuedex:collection:businesses" {
		t.Errorf("unexpected HSET key: %s", hsetKey)
	}
	if createdIndex != "venuedex:businesses:idx" {
		t.Errorf("unexpected index name: %s", createdIndex)
	}
}

func TestEnsure_AlreadyProvisioned(t *testing.T) {
	repo, ms := newTestRepo(t)
	col := testCollection(t)

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		t.Error("HSET must not be called")
		return nil
	}
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Error("FT.CREATE must not be called")
		return nil
	}

	if err := repo.Ensure(context.Background(), col, testIndex(t, col)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsure_MetadataWithoutIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	col := testCollection(t)

	var created bool
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		t.Error("HSET must not be called when metadata exists")
		return nil
	}
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		created = true
		return nil
	}

	if err := repo.Ensure(context.Background(), col, testIndex(t, col)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected FT.CREATE")
	}
}

func TestEnsure_IndexRaceTreatedAsSuccess(t *testing.T) {
	repo, ms := newTestRepo(t)
	col := testCollection(t)

	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error { return db.ErrIndexExists }
	ms.delFn = func(_ context.Context, _ string) error {
		t.Error("DEL must not be called")
		return nil
	}

	if err := repo.Ensure(context.Background(), col, testIndex(t, col)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsure_FTCreateError_RollbackOK(t *testing.T) {
	repo, ms := newTestRepo(t)
	col := testCollection(t)

	var delCalled bool
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return errors.New("index limit reached")
	}
	ms.delFn = func(_ context.Context, key string) error {
		delCalled = true
		if key != "venuedex:collection:businesses" {
			t.Errorf("unexpected DEL key: %s", key)
		}
		return nil
	}

	err := repo.Ensure(context.Background(), col, testIndex(t, col))
	if err == nil {
		t.Fatal("expected error on FT.CREATE failure")
	}
	if !delCalled {
		t.Error("expected DEL to be called for rollback")
	}
}

func TestEnsure_FTCreateError_RollbackFailed(t *testing.T) {
	repo, ms := newTestRepo(t)
	col := testCollection(t)

	createErr := errors.New("index limit reached")
	delErr := errors.New("connection lost")
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error { return createErr }
	ms.delFn = func(_ context.Context, _ string) error { return delErr }

	err := repo.Ensure(context.Background(), col, testIndex(t, col))
	if !errors.Is(err, createErr) || !errors.Is(err, delErr) {
		t.Fatalf("expected joined error, got %v", err)
	}
}

func TestEnsure_HSetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	col := testCollection(t)

	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection lost")
	}
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Error("FT.CREATE must not be called after HSET failure")
		return nil
	}

	if err := repo.Ensure(context.Background(), col, testIndex(t, col)); err == nil {
		t.Fatal("expected error on HSET failure")
	}
}

func TestEnsure_ForeignIndexDefinition(t *testing.T) {
	repo, _ := newTestRepo(t)
	col := testCollection(t)

	def, err := db.NewIndex("other:idx").Tag("$.visited", "visited").Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Ensure(context.Background(), col, def); err == nil {
		t.Fatal("expected error for mismatched index name")
	}
	if err := repo.Ensure(context.Background(), col, nil); err == nil {
		t.Fatal("expected error for nil index definition")
	}
}

// --- Get ---

func TestGet_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "venuedex:collection:businesses" {
			t.Errorf("unexpected key: %s", key)
		}
		return map[string]string{
			"name":       "businesses",
			"key_prefix": "venuedex:businesses:",
			"vector_dim": "768",
			"created_at": "1700000000000",
		}, nil
	}

	col, err := repo.Get(context.Background(), "businesses")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.Name() != "businesses" {
		t.Errorf("expected name businesses, got %s", col.Name())
	}
	if col.VectorDim() != 768 {
		t.Errorf("expected dim 768, got %d", col.VectorDim())
	}
	if col.IndexName() != "venuedex:businesses:idx" {
		t.Errorf("unexpected index name %s", col.IndexName())
	}
	if col.CreatedAt() != 1700000000000 {
		t.Errorf("unexpected created_at %d", col.CreatedAt())
	}
}

func TestGet_DefaultVectorDim(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"name": "businesses", "created_at": "1"}, nil
	}

	col, err := repo.Get(context.Background(), "businesses")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.VectorDim() != testVectorDim {
		t.Errorf("expected default dim %d, got %d", testVectorDim, col.VectorDim())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_CorruptHash(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"name": "businesses", "created_at": "yesterday"}, nil
	}

	if _, err := repo.Get(context.Background(), "businesses"); err == nil {
		t.Fatal("expected parse error")
	}
}

// --- List ---

func TestList_SortedByCreatedAt(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "venuedex:collection:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"venuedex:collection:b", "venuedex:collection:gone", "venuedex:collection:a"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		if len(keys) != 3 {
			t.Errorf("expected 3 keys, got %d", len(keys))
		}
		return []map[string]string{
			{"name": "b", "created_at": "200"},
			{},
			{"name": "a", "created_at": "100"},
		}, nil
	}

	cols, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(cols))
	}
	if cols[0].Name() != "a" || cols[1].Name() != "b" {
		t.Errorf("unexpected order: %s, %s", cols[0].Name(), cols[1].Name())
	}
}

func TestList_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	cols, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols == nil || len(cols) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", cols)
	}
}

func TestList_ScanError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return nil, errors.New("connection lost")
	}

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
