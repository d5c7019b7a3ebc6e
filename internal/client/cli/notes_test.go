package cli

import (
	"testing"

	"github.com/dmitrijs2005/pdfnotes/internal/server/notes"
	"github.com/stretchr/testify/assert"
)

func TestNotesTextRoundTripsThroughSanitizer(t *testing.T) {
	tests := []struct {
		name, typed, want string
	}{
		{name: "comparison operators", typed: "a < b && c", want: "a < b && c"},
		{name: "quotes", typed: `if a < b && c > d then "x"`, want: `if a < b && c > d then "x"`},
		{name: "apostrophe", typed: "it's fine", want: "it's fine"},
		{name: "multiline", typed: "line one\nline two", want: "line one\nline two"},
		{name: "markup is kept", typed: "<p>first &amp; second</p>", want: "<p>first & second</p>"},
		{name: "scripts are dropped", typed: "ok<script>alert(1)</script>", want: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notesText(notes.Sanitize(tt.typed)))
		})
	}
}
