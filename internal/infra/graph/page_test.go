package graph

import (
	"strings"
	"testing"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `title:: Work Stuff

- Notes without marker
- TODO Write report #finance
  id:: b1
  estimated:: 90
  SCHEDULED: <2024-01-01 Mon 09:00 .+1d>
  DEADLINE: <2024-01-01 Mon 11:00>
  :LOGBOOK:
  CLOCK: [2024-01-01 Mon 09:00:00]--[2024-01-01 Mon 09:30:00] =>  00:30:00
  CLOCK: [2024-01-01 Mon 10:00:00]
  :END:
  some free text
	- DONE Child step
	  id:: b2
- LATER Someday
`

func TestParsePage(t *testing.T) {
	p := parsePage(domain.PageInfo{Name: "work stuff"}, "/g/pages/Work Stuff.md", "pages/Work Stuff.md", samplePage)

	assert.Equal(t, "Work Stuff", p.info.OriginalName)
	require.Len(t, p.blocks, 4)
	tasks := p.tasks()
	require.Len(t, tasks, 3)

	raw := tasks[0].raw
	assert.Equal(t, "b1", raw.UUID)
	assert.Equal(t, domain.MarkerTodo, raw.Marker)
	assert.Equal(t, "Write report #finance", raw.Content)
	assert.Equal(t, "work stuff", raw.Page)
	assert.Equal(t, "2024-01-01 Mon 09:00 .+1d", raw.Scheduled)
	assert.Equal(t, "2024-01-01 Mon 11:00", raw.Deadline)
	assert.Equal(t, map[string]string{"estimated": "90"}, raw.Properties)
	assert.Len(t, raw.Logbook, 2)
	assert.Equal(t, []string{"  some free text"}, tasks[0].body)
	assert.Equal(t, 15, tasks[0].subtreeEnd, "child belongs to the subtree")

	assert.Equal(t, "b2", tasks[1].raw.UUID)
	assert.Equal(t, "\t", tasks[1].indent)
	assert.Empty(t, tasks[2].raw.UUID)
}

func TestBlock_RenderRoundTrip(t *testing.T) {
	p := parsePage(domain.PageInfo{Name: "work stuff"}, "", "", samplePage)
	b := p.find("b1")
	require.NotNil(t, b)

	lines := b.render(b.raw)
	p.replace(b, lines)
	again := p.find("b1")
	require.NotNil(t, again)

	assert.Equal(t, b.raw, again.raw)
	assert.Contains(t, p.content(), "\t- DONE Child step")
}

func TestPageFile_MoveSubtree(t *testing.T) {
	p := parsePage(domain.PageInfo{Name: "work"}, "", "", samplePage)
	b := p.find("b1")

	moved := p.subtree(b)
	p.remove(b)

	assert.Equal(t, "- TODO Write report #finance", moved[0])
	assert.Equal(t, "\t- DONE Child step", moved[len(moved)-2], "children keep their relative indent")
	assert.Nil(t, p.find("b2"))
	assert.Len(t, p.tasks(), 1)
	assert.True(t, strings.HasSuffix(p.content(), "- LATER Someday\n"))
}

func TestBlock_RenderNewBlock(t *testing.T) {
	raw := &domain.RawBlock{
		UUID:       "n1",
		Marker:     domain.MarkerTodo,
		Content:    "Plan",
		Scheduled:  "2024-01-02 Tue",
		Properties: map[string]string{"estimated": "30", "area": "home"},
		Logbook:    []string{"[2024-01-02 Tue 08:00:00]--[2024-01-02 Tue 08:30:00] =>  00:30:00"},
	}

	got := (&block{}).render(raw)

	assert.Equal(t, []string{
		"- TODO Plan",
		"  area:: home",
		"  estimated:: 30",
		"  id:: n1",
		"  SCHEDULED: <2024-01-02 Tue>",
		"  :LOGBOOK:",
		"  CLOCK: [2024-01-02 Tue 08:00:00]--[2024-01-02 Tue 08:30:00] =>  00:30:00",
		"  :END:",
	}, got)
}

func TestReadFavorites(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.edn"

	names, err := readFavorites(path)
	require.NoError(t, err)
	assert.Nil(t, names)

	writeFile(t, path, "{:meta/version 1\n :favorites [\"Work\" \"home\"]\n :hidden []}\n")
	names, err = readFavorites(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "home"}, names)
}
