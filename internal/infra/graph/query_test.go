package graph

import (
	"testing"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Match(t *testing.T) {
	raw := &domain.RawBlock{
		Marker:     domain.MarkerTodo,
		Content:    "Call Bob about #[[Tax Return]] #finance",
		Page:       "work",
		Properties: map[string]string{"tags": "urgent, [[Q1]]", "owner": "Ann"},
	}
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"page:work", true},
		{"page:Work", true},
		{"page:home", false},
		{"tag:finance", true},
		{"tag:#Finance", true},
		{`tag:"tax return"`, true},
		{"tag:urgent tag:q1", true},
		{"tag:health", false},
		{"marker:todo", true},
		{"marker:DONE", false},
		{"-marker:DONE", true},
		{"bob", true},
		{`"call bob"`, true},
		{`text:"about #"`, true},
		{"prop:owner=ann", true},
		{"prop:owner=bob", false},
		{"page:work -tag:finance", false},
		{"page:work marker:TODO bob", true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Match(raw))
		})
	}
}

func TestParseQuery_Errors(t *testing.T) {
	for _, bad := range []string{"color:red", `text:"open`, "page:", "prop:owner"} {
		_, err := ParseQuery(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery, bad)
	}
}

func TestValidateFilters(t *testing.T) {
	assert.NoError(t, ValidateFilters(nil))
	assert.NoError(t, ValidateFilters([]domain.Filter{{ID: "work", Query: "page:work -marker:DONE"}}))

	err := ValidateFilters([]domain.Filter{
		{ID: "work", Query: "page:work"},
		{ID: "lunch", Query: "at:12:30"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	assert.ErrorContains(t, err, "filter lunch")
}
