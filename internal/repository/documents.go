package repository

import (
	"context"
	"errors"
	"fmt"

	"kinship/internal/docstore"
)

// Document collections
const (
	CollectionUsers              = "users"
	CollectionFamilyTrees        = "familyTrees"
	CollectionFamilyData         = "familyData"
	CollectionConnectionRequests = "connectionRequests"
)

// Collections lists every collection the application writes
var Collections = []string{
	CollectionUsers,
	CollectionFamilyTrees,
	CollectionFamilyData,
	CollectionConnectionRequests,
}

// getDocument loads collection/id into a new T. A missing document yields nil, nil.
func getDocument[T any](ctx context.Context, store docstore.Store, collection, id string) (*T, error) {
	doc, err := store.Get(ctx, collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := docstore.Decode(doc, out); err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return out, nil
}

func putDocument(ctx context.Context, store docstore.Store, collection, id string, v any, merge bool) error {
	doc, err := docstore.Encode(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, collection, id, doc, merge)
}

func listDocuments[T any](ctx context.Context, store docstore.Store, collection string) ([]T, []string, error) {
	entries, err := store.List(ctx, collection)
	if err != nil {
		return nil, nil, err
	}

	items := make([]T, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		var item T
		if err := docstore.Decode(e.Document, &item); err != nil {
			// Shape mismatches are left out of listings rather than failing them
			continue
		}
		items = append(items, item)
		ids = append(ids, e.ID)
	}
	return items, ids, nil
}
