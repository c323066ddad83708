package models

import (
	"net/url"
	"strings"
)

// ExtractRefID resolves a reference field to a canonical record identifier.
// Reference values are either bare identifiers or link-like strings whose
// last path segment is the identifier. The empty string means "no reference".
// The function is total: any input yields a result, never an error.
func ExtractRefID(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return ""
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		return strings.TrimSpace(segments[len(segments)-1])
	}

	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.Trim(ref, "/")
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	return strings.TrimSpace(ref)
}
