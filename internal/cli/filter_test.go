package cli

import (
	"testing"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFilters = `filters:
  - id: work
    name: Work
    query: "page:work"
  - id: errands
    query: "tag:errand"
`

func newFilteredGraph(t *testing.T) *app.Container {
	t.Helper()
	return newTestGraph(t, ".agenda/filters.yaml", testFilters)
}

func TestFilterList(t *testing.T) {
	c := newFilteredGraph(t)

	out := mustExecute(t, c, "filter", "list")

	assert.Contains(t, out, "work")
	assert.Contains(t, out, "page:work")
	assert.Contains(t, out, "errands")
	assert.NotContains(t, out, "*")

	mustExecute(t, c, "filter", "select", "work")
	assert.Contains(t, mustExecute(t, c, "filter", "list"), "*")
}

func TestFilterList_NoFilters(t *testing.T) {
	c := newTestGraph(t)

	assert.Contains(t, mustExecute(t, c, "filter", "list"), "No filters defined.")
}

func TestFilterSelect_Modes(t *testing.T) {
	c := newFilteredGraph(t)

	assert.Equal(t, "Selected filters: [work]\n", mustExecute(t, c, "filter", "select", "work"))
	assert.Equal(t, "Selected filters: [work errands]\n", mustExecute(t, c, "filter", "select", "--add", "errands"))
	assert.Equal(t, "Selected filters: [errands]\n", mustExecute(t, c, "filter", "select", "--remove", "work"))
	assert.Equal(t, "No filters selected\n", mustExecute(t, c, "filter", "select", "--clear"))

	st, err := c.State.Load()
	require.NoError(t, err)
	assert.Empty(t, st.SelectedFilters)
}

func TestFilterSelect_Errors(t *testing.T) {
	c := newFilteredGraph(t)

	_, _, err := execute(t, c, "filter", "select", "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownFilter)

	_, _, err = execute(t, c, "filter", "select")
	assert.ErrorContains(t, err, "no filter ids given")

	_, _, err = execute(t, c, "filter", "select", "--add", "--remove", "work")
	assert.ErrorContains(t, err, "cannot be combined")

	_, _, err = execute(t, c, "filter", "select", "--clear", "work")
	assert.ErrorContains(t, err, "takes no ids")
}

func TestFilterSelect_HidesTasksAndColumns(t *testing.T) {
	c := newFilteredGraph(t)
	createTask(t, c, "--page", "Work", "-d", "2024-01-04", "Ship release")
	createTask(t, c, "--page", "Home", "-d", "2024-01-04", "Buy milk #errand")
	createTask(t, c, "--page", "Home", "-d", "2024-01-04", "Read book")

	mustExecute(t, c, "filter", "select", "work", "errands")

	out, stderr, err := execute(t, c, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ship release")
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "Read book")
	assert.Contains(t, stderr, "1 task(s) hidden")

	out = mustExecute(t, c, "list", "--group", "category")
	assert.Contains(t, out, "== Work (1)")
	assert.Contains(t, out, "== errands (1)")

	// A new task outside every filter is written but reported as hidden.
	_, stderr, err = execute(t, c, "new", "--page", "Home", "Hidden chore")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Note: ")
	assert.Contains(t, readGraphFile(t, c, "pages/Home.md"), "Hidden chore")
}
