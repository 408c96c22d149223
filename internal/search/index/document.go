package index

import (
	"fmt"
	"strings"

	pkgerrors "github.com/nishantgupta83/mindful-living-search/pkg/errors"
)

// Document is the engine's immutable snapshot of one wellness article. It is
// copied out of the content store at build time and lives for one index
// generation.
type Document struct {
	ID          string
	Title       string
	Description string
	Approach    string
	Steps       []string
	Insights    []string
	Area        string
	Tags        []string
}

// ParseDocument converts one schemaless content-store record into a Document.
// Missing fields default to empty values; a record without an id, or with no
// searchable text at all, is malformed.
func ParseDocument(id string, fields map[string]any) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("%w: empty document id", pkgerrors.ErrMalformedDocument)
	}
	doc := Document{
		ID:          id,
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Approach:    stringField(fields, "approach"),
		Steps:       stringSliceField(fields, "steps"),
		Insights:    stringSliceField(fields, "insights"),
		Area:        stringField(fields, "area"),
		Tags:        stringSliceField(fields, "tags"),
	}
	if doc.Title == "" && doc.Description == "" {
		return Document{}, fmt.Errorf("%w: document %s has no title or description", pkgerrors.ErrMalformedDocument, id)
	}
	return doc, nil
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func stringSliceField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
