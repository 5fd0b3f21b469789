package document

import (
	"encoding/json"
	"fmt"

	"github.com/mini-lawyer/lawdex/internal/domain"
)

// parseJSONGetResult converts a JSON.GET "$" reply (an array with one element)
// into a domain document.
func parseJSONGetResult(kind domain.Kind, id string, raw []byte) (domain.LegalDocument, error) {
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		// Some deployments store the object at the root path without the
		// array wrapper.
		var single map[string]any
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return domain.LegalDocument{}, fmt.Errorf("parse document %s: %w", id, err)
		}
		return parseDocMap(kind, id, single), nil
	}
	if len(docs) == 0 {
		return domain.LegalDocument{}, domain.ErrDocumentNotFound
	}
	return parseDocMap(kind, id, docs[0]), nil
}

// parseDocMap maps the stored record onto the domain document. Name and
// Description are the only fields the core reads; everything else rides along
// in Meta for display.
func parseDocMap(kind domain.Kind, id string, m map[string]any) domain.LegalDocument {
	doc := domain.LegalDocument{Kind: kind, ID: id}

	meta := make(map[string]any, len(m))
	for k, v := range m {
		switch k {
		case "Name":
			if s, ok := v.(string); ok {
				doc.Name = s
			}
		case "Description":
			if s, ok := v.(string); ok {
				doc.Description = s
			}
		default:
			meta[k] = v
		}
	}
	if len(meta) > 0 {
		doc.Meta = meta
	}

	return doc
}
