// Package docstore implements the schemaless document store the rest of the
// application persists through: documents are JSON objects addressed by a
// collection name and an id, written whole or merged into what is stored.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned by Get when no document exists for the key
var ErrNotFound = errors.New("document not found")

// Document is a decoded JSON object
type Document map[string]any

// Entry pairs a document with its id, as returned by List
type Entry struct {
	ID       string
	Document Document
}

// Store is the document store contract
type Store interface {
	// Get returns the document or ErrNotFound
	Get(ctx context.Context, collection, id string) (Document, error)

	// Set writes the document. With merge the document is deep-merged into the
	// stored one; otherwise it replaces it. Null fields are stripped first.
	Set(ctx context.Context, collection, id string, doc Document, merge bool) error

	// List returns every document of a collection ordered by id
	List(ctx context.Context, collection string) ([]Entry, error)

	// Delete removes a document; deleting a missing document is not an error
	Delete(ctx context.Context, collection, id string) error
}

// Encode converts a value into a Document through its JSON representation,
// dropping null fields
func Encode(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	return Sanitize(doc), nil
}

// Decode fills v from a Document
func Decode(doc Document, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to re-encode document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Sanitize returns a copy of doc with every nil-valued field removed, at any depth
func Sanitize(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if v == nil {
			continue
		}
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(Sanitize(Document(val)))
	case Document:
		return Sanitize(val)
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return v
	}
}

// Merge deep-merges src into a copy of dst. Nested objects merge key by key;
// arrays and scalars in src replace those in dst.
func Merge(dst, src Document) Document {
	out := make(Document, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcIsMap := asMap(v)
		dstMap, dstIsMap := asMap(out[k])
		if srcIsMap && dstIsMap {
			out[k] = map[string]any(Merge(Document(dstMap), Document(srcMap)))
			continue
		}
		out[k] = v
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case Document:
		return val, true
	default:
		return nil, false
	}
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}
