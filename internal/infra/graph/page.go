package graph

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/runoshun/git-agenda/internal/domain"
)

var (
	bulletPattern   = regexp.MustCompile(`^(\s*)-(?:\s+(.*))?$`)
	markerPattern   = regexp.MustCompile(`^(TODO|DOING|NOW|LATER|DONE)(?:\s+(.*))?$`)
	propertyPattern = regexp.MustCompile(`^([A-Za-z0-9_-]+)::\s*(.*)$`)
)

const (
	propID       = "id"
	propTitle    = "title"
	propEstimate = "estimated"
	logbookOpen  = ":LOGBOOK:"
	logbookClose = ":END:"
	clockPrefix  = "CLOCK:"
)

// pageFile is one markdown file of the graph split into blocks.
type pageFile struct {
	info   domain.PageInfo
	path   string // absolute
	rel    string // relative to the graph root
	lines  []string
	blocks []*block
}

// block is a bullet of a page. Only blocks with a marker carry a raw task.
// Fields are ordered to minimize memory padding.
type block struct {
	raw        *domain.RawBlock
	indent     string
	propOrder  []string // property keys in file order
	body       []string // continuation lines kept verbatim
	start      int      // first line
	end        int      // one past the last own line
	subtreeEnd int      // one past the last line of the children
}

// parsePage splits content into blocks. info is completed from the title property.
func parsePage(info domain.PageInfo, path, rel, content string) *pageFile {
	p := &pageFile{info: info, path: path, rel: rel}
	content = strings.TrimRight(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if content != "" {
		p.lines = strings.Split(content, "\n")
	}
	p.index()
	return p
}

// index rebuilds the blocks after lines changed.
func (p *pageFile) index() {
	p.blocks = nil
	var open []*block
	for i := 0; i < len(p.lines); {
		m := bulletPattern.FindStringSubmatch(p.lines[i])
		if m == nil {
			if len(p.blocks) == 0 {
				if pm := propertyPattern.FindStringSubmatch(strings.TrimSpace(p.lines[i])); pm != nil && pm[1] == propTitle {
					p.info.OriginalName = strings.TrimSpace(pm[2])
				}
			}
			i++
			continue
		}
		b := &block{start: i, indent: m[1]}
		j := i + 1
		for j < len(p.lines) && !bulletPattern.MatchString(p.lines[j]) {
			j++
		}
		b.end = j
		p.parseBlock(b, m[2])

		for len(open) > 0 && len(open[len(open)-1].indent) >= len(b.indent) {
			open[len(open)-1].subtreeEnd = i
			open = open[:len(open)-1]
		}
		open = append(open, b)
		p.blocks = append(p.blocks, b)
		i = j
	}
	for _, b := range open {
		b.subtreeEnd = len(p.lines)
	}
}

func (p *pageFile) parseBlock(b *block, first string) {
	m := markerPattern.FindStringSubmatch(first)
	if m == nil {
		return
	}
	raw := &domain.RawBlock{
		Marker:     domain.Marker(m[1]),
		Content:    m[2],
		Page:       p.info.Name,
		Properties: make(map[string]string),
	}
	inLogbook := false
	for _, line := range p.lines[b.start+1 : b.end] {
		text := strings.TrimSpace(line)
		switch {
		case inLogbook:
			if text == logbookClose {
				inLogbook = false
			} else if rest, ok := strings.CutPrefix(text, clockPrefix); ok {
				raw.Logbook = append(raw.Logbook, strings.TrimSpace(rest))
			}
		case text == logbookOpen:
			inLogbook = true
		case isScheduleLine(text):
			for _, sm := range scheduleLineRef.FindAllStringSubmatch(text, -1) {
				if sm[1] == "SCHEDULED" {
					raw.Scheduled = strings.TrimSpace(sm[2])
				} else {
					raw.Deadline = strings.TrimSpace(sm[2])
				}
			}
		default:
			if pm := propertyPattern.FindStringSubmatch(text); pm != nil {
				key := strings.ToLower(pm[1])
				if key == propID {
					raw.UUID = strings.TrimSpace(pm[2])
				} else {
					raw.Properties[key] = strings.TrimSpace(pm[2])
				}
				b.propOrder = append(b.propOrder, key)
				continue
			}
			b.body = append(b.body, line)
		}
	}
	b.raw = raw
}

// isScheduleLine reports whether text holds only SCHEDULED/DEADLINE timestamps.
func isScheduleLine(text string) bool {
	return scheduleLineRef.MatchString(text) && strings.TrimSpace(scheduleLineRef.ReplaceAllString(text, "")) == ""
}

// tasks returns the blocks that carry a marker.
func (p *pageFile) tasks() []*block {
	var out []*block
	for _, b := range p.blocks {
		if b.raw != nil {
			out = append(out, b)
		}
	}
	return out
}

// find returns the task block with the given id, or nil.
func (p *pageFile) find(id string) *block {
	for _, b := range p.blocks {
		if b.raw != nil && b.raw.UUID == id {
			return b
		}
	}
	return nil
}

// replace swaps the own lines of b for lines. Children are kept.
func (p *pageFile) replace(b *block, lines []string) {
	p.lines = slices.Replace(p.lines, b.start, b.end, lines...)
	p.index()
}

// remove deletes b together with its children.
func (p *pageFile) remove(b *block) {
	p.lines = slices.Delete(p.lines, b.start, b.subtreeEnd)
	p.index()
}

// appendLines adds top-level lines at the end of the page.
func (p *pageFile) appendLines(lines []string) {
	p.lines = append(p.lines, lines...)
	p.index()
}

// subtree returns b and its children moved to the top level.
func (p *pageFile) subtree(b *block) []string {
	out := make([]string, 0, b.subtreeEnd-b.start)
	for _, line := range p.lines[b.start:b.subtreeEnd] {
		out = append(out, strings.TrimPrefix(line, b.indent))
	}
	return out
}

// content renders the page file.
func (p *pageFile) content() string {
	if len(p.lines) == 0 {
		return ""
	}
	return strings.Join(p.lines, "\n") + "\n"
}

// render returns the own lines of a task block.
func (b *block) render(raw *domain.RawBlock) []string {
	pad := b.indent + "  "
	first := b.indent + "- " + string(raw.Marker)
	if raw.Content != "" {
		first += " " + raw.Content
	}
	lines := []string{first}

	props := maps.Clone(raw.Properties)
	if raw.UUID != "" {
		props[propID] = raw.UUID
	}
	var keys []string
	for _, k := range b.propOrder {
		if _, ok := props[k]; ok && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	var added []string
	for k := range props {
		if !slices.Contains(keys, k) && k != propID {
			added = append(added, k)
		}
	}
	slices.Sort(added)
	keys = append(keys, added...)
	if _, ok := props[propID]; ok && !slices.Contains(keys, propID) {
		keys = append(keys, propID)
	}
	for _, k := range keys {
		lines = append(lines, pad+k+":: "+props[k])
	}

	if raw.Scheduled != "" {
		lines = append(lines, pad+"SCHEDULED: <"+raw.Scheduled+">")
	}
	if raw.Deadline != "" {
		lines = append(lines, pad+"DEADLINE: <"+raw.Deadline+">")
	}
	if len(raw.Logbook) > 0 {
		lines = append(lines, pad+logbookOpen)
		for _, c := range raw.Logbook {
			lines = append(lines, pad+clockPrefix+" "+c)
		}
		lines = append(lines, pad+logbookClose)
	}
	return append(lines, b.body...)
}
