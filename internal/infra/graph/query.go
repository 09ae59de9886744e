package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/git-agenda/internal/domain"
)

// queryKey is the field a query term tests.
type queryKey string

const (
	keyPage   queryKey = "page"
	keyTag    queryKey = "tag"
	keyMarker queryKey = "marker"
	keyText   queryKey = "text"
	keyProp   queryKey = "prop" // prop:key=value
)

// term is one condition of a query. All terms must hold.
type term struct {
	key    queryKey
	value  string // lower-cased
	negate bool
}

// Query is a compiled filter query such as `page:work -marker:DONE "call bob"`.
type Query struct {
	terms []term
}

// ParseQuery compiles a filter query. Bare words match the block text.
// Values may be double-quoted and a leading "-" negates a term.
func ParseQuery(q string) (Query, error) {
	tokens, err := tokenize(q)
	if err != nil {
		return Query{}, err
	}
	var out Query
	for _, tok := range tokens {
		t := term{key: keyText}
		if rest, ok := strings.CutPrefix(tok, "-"); ok && rest != "" {
			t.negate, tok = true, rest
		}
		if k, v, ok := strings.Cut(tok, ":"); ok && !strings.HasPrefix(k, "\"") {
			switch key := queryKey(strings.ToLower(k)); key {
			case keyPage, keyTag, keyMarker, keyText:
				t.key = key
			case keyProp:
				if !strings.Contains(v, "=") {
					return Query{}, fmt.Errorf("%w: %q needs key=value", domain.ErrInvalidQuery, tok)
				}
				t.key = key
			default:
				return Query{}, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidQuery, k)
			}
			tok = v
		}
		t.value = strings.ToLower(strings.Trim(tok, `"`))
		if t.value == "" {
			return Query{}, fmt.Errorf("%w: empty value in %q", domain.ErrInvalidQuery, q)
		}
		out.terms = append(out.terms, t)
	}
	return out, nil
}

// ValidateFilters reports the first filter whose query does not compile.
func ValidateFilters(filters []domain.Filter) error {
	_, err := compileFilters(filters)
	return err
}

func compileFilters(filters []domain.Filter) ([]Query, error) {
	queries := make([]Query, len(filters))
	for i, f := range filters {
		q, err := ParseQuery(f.Query)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.ID, err)
		}
		queries[i] = q
	}
	return queries, nil
}

// Match reports whether raw satisfies every term.
func (q Query) Match(raw *domain.RawBlock) bool {
	for _, t := range q.terms {
		if t.match(raw) == t.negate {
			return false
		}
	}
	return true
}

func (t term) match(raw *domain.RawBlock) bool {
	switch t.key {
	case keyPage:
		return strings.ToLower(raw.Page) == strings.TrimPrefix(t.value, "#")
	case keyTag:
		want := strings.TrimPrefix(t.value, "#")
		return slices.ContainsFunc(blockTags(raw), func(tag string) bool { return strings.ToLower(tag) == want })
	case keyMarker:
		return strings.ToLower(string(raw.Marker)) == t.value
	case keyProp:
		k, v, _ := strings.Cut(t.value, "=")
		return strings.ToLower(raw.Properties[k]) == v
	default:
		return strings.Contains(strings.ToLower(raw.Content), t.value)
	}
}

// blockTags returns the page references of the content plus the tags property.
func blockTags(raw *domain.RawBlock) []string {
	tags := domain.PageRefs(raw.Content)
	for _, tag := range strings.Split(raw.Properties["tags"], ",") {
		if tag = strings.Trim(strings.TrimSpace(tag), "[]#"); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// tokenize splits on spaces outside double quotes.
func tokenize(q string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inQuote bool
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range q {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote in %q", domain.ErrInvalidQuery, q)
	}
	flush()
	return tokens, nil
}
