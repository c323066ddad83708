package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRefID(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "empty", ref: "", want: ""},
		{name: "whitespace only", ref: "   ", want: ""},
		{name: "bare identifier", ref: "crs-42", want: "crs-42"},
		{name: "identifier with padding", ref: "  crs-42  ", want: "crs-42"},
		{name: "absolute link", ref: "http://store.local/courses/crs-42", want: "crs-42"},
		{name: "link with trailing slash", ref: "http://store.local/courses/crs-42/", want: "crs-42"},
		{name: "link with query", ref: "http://store.local/courses/crs-42?expand=instructor", want: "crs-42"},
		{name: "link with fragment", ref: "http://store.local/courses/crs-42#detail", want: "crs-42"},
		{name: "link without path", ref: "http://store.local/", want: ""},
		{name: "relative path", ref: "courses/crs-42", want: "crs-42"},
		{name: "relative path with query", ref: "courses/crs-42?x=1", want: "crs-42"},
		{name: "lone slash", ref: "/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRefID(tt.ref))
		})
	}
}

func TestExtractRefIDNeverPanics(t *testing.T) {
	inputs := []string{"", " ", "://", "http://", "%%%", "??##", "a//b///c"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = ExtractRefID(in) })
	}
}
