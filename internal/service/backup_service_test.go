package service

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinship/internal/docstore"
	"kinship/internal/models"
	"kinship/internal/repository"
)

func TestBackupService_RoundTrip(t *testing.T) {
	src := newFixture(t)
	ctx := context.Background()
	seedProfile(t, src, "u1", map[string]any{"fullName": "Ada"})
	_, _, err := src.treeService(nil).AddMember(ctx, "u1", models.Member{FullName: "Ngozi"})
	require.NoError(t, err)
	_, err = NewConnectionService(src.connections, src.profiles, nil, src.log).SendRequest(ctx, "u1", "u2")
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := NewBackupService(src.store, src.log).ExportToWriter(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, stats[repository.CollectionUsers])
	assert.Equal(t, 1, stats[repository.CollectionFamilyTrees])
	assert.Equal(t, 1, stats[repository.CollectionConnectionRequests])
	assert.Equal(t, 0, stats[repository.CollectionFamilyData])

	dst := newFixture(t)
	_, err = NewBackupService(dst.store, dst.log).ImportFromReader(ctx, &buf, false)
	require.NoError(t, err)

	for _, collection := range repository.Collections {
		want, err := src.store.List(ctx, collection)
		require.NoError(t, err)
		got, err := dst.store.List(ctx, collection)
		require.NoError(t, err)
		assert.Equal(t, want, got, collection)
	}

	tree, err := dst.trees.GetTree(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tree.Members, 1)
	assert.Equal(t, "Ngozi", tree.Members[0].FullName)
}

func TestBackupService_ImportWithClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBackupService(f.store, f.log)
	path := filepath.Join(t.TempDir(), "backup.json")

	seedProfile(t, f, "keep", map[string]any{"fullName": "Keep"})
	_, err := svc.Export(ctx, path)
	require.NoError(t, err)

	seedProfile(t, f, "extra", map[string]any{"fullName": "Extra"})

	stats, err := svc.Import(ctx, path, true)
	require.NoError(t, err)
	assert.Equal(t, 1, stats[repository.CollectionUsers])

	_, err = f.store.Get(ctx, repository.CollectionUsers, "extra")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	keep, err := f.profiles.GetProfile(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "Keep", keep.FullName)
}

func TestBackupService_ImportRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, err := NewBackupService(f.store, f.log).ImportFromReader(context.Background(), bytes.NewBufferString("not json"), false)
	assert.Error(t, err)
}
