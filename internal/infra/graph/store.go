// Package graph implements the block store on a Logseq-style markdown graph:
// pages/*.md, journals/yyyy_mm_dd.md and logseq/config.edn.
package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/runoshun/git-agenda/internal/domain"
)

const (
	pagesDir      = "pages"
	journalsDir   = "journals"
	configEDN     = "logseq/config.edn"
	journalLayout = "2006_01_02"
	lockFileName  = "graph.lock"
)

// Options configure a Store. Zero values select the defaults.
// Fields are ordered to minimize memory padding.
type Options struct {
	Location *time.Location // Zone of timestamps written to the graph (default: time.Local)
	Clock    domain.Clock   // Picks today's journal for unscheduled tasks
	History  domain.History // Records every mutation; nil disables history
	Logger   domain.Logger
	NewID    func() string // Block id generator (default: random UUID)
	LockDir  string        // Directory of the lock file (default: <dir>/.agenda)
}

// Store implements domain.BlockStore on the markdown files of a graph.
type Store struct {
	opts     Options
	dir      string
	lockPath string
}

// New creates a Store for the graph rooted at dir.
func New(dir string, opts Options) *Store {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = domain.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = domain.NopLogger{}
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.LockDir == "" {
		opts.LockDir = domain.GraphAgendaDir(dir)
	}
	return &Store{opts: opts, dir: dir, lockPath: filepath.Join(opts.LockDir, lockFileName)}
}

// Dir returns the graph root.
func (s *Store) Dir() string {
	return s.dir
}

// IsInitialized reports whether the pages and journals directories exist.
func (s *Store) IsInitialized() bool {
	for _, d := range []string{pagesDir, journalsDir} {
		if fi, err := os.Stat(filepath.Join(s.dir, d)); err != nil || !fi.IsDir() {
			return false
		}
	}
	return true
}

// Initialize creates the graph layout. Existing files are kept.
func (s *Store) Initialize() error {
	return s.withLockWrite(func() error {
		for _, d := range []string{pagesDir, journalsDir, filepath.Dir(configEDN)} {
			if err := os.MkdirAll(filepath.Join(s.dir, d), 0o750); err != nil {
				return fmt.Errorf("create %s: %w", d, err)
			}
		}
		path := filepath.Join(s.dir, configEDN)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := writeAtomic(path, []byte("{:meta/version 1\n :favorites []}\n"), 0o644); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateBlock appends a task block to its page, or to the journal of its start date.
func (s *Store) CreateBlock(ctx context.Context, draft domain.BlockDraft) (*domain.RawBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var created *domain.RawBlock
	err := s.withLockWrite(func() error {
		page, err := s.targetPage(draft)
		if err != nil {
			return err
		}
		raw := &domain.RawBlock{
			UUID:       s.opts.NewID(),
			Marker:     draft.Marker,
			Content:    draft.Title,
			Page:       page.info.Name,
			Properties: make(map[string]string),
		}
		if raw.Marker == "" {
			raw.Marker = domain.MarkerTodo
		}
		delta := domain.BlockDelta{
			Placement: &draft.Placement,
			RRule:     draft.RRule,
			TimeLogs:  &draft.TimeLogs,
		}
		if draft.EstimatedTime != nil {
			delta.EstimatedTime = draft.EstimatedTime
		}
		if err := s.applyDelta(raw, delta); err != nil {
			return err
		}
		page.appendLines((&block{}).render(raw))
		if err := s.save(ctx, fmt.Sprintf("Add %s %s", raw.Marker, raw.Content), page); err != nil {
			return err
		}
		created = raw
		return nil
	})
	return created, err
}

// UpdateBlock rewrites the block with the given id. Moving to another page
// carries the children along.
func (s *Store) UpdateBlock(ctx context.Context, id string, delta domain.BlockDelta) (*domain.RawBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated *domain.RawBlock
	err := s.withLockWrite(func() error {
		pages, err := s.scan()
		if err != nil {
			return err
		}
		page, b := locate(pages, id)
		if b == nil {
			return fmt.Errorf("block %s: %w", id, domain.ErrTaskNotFound)
		}
		raw := b.raw.Clone()
		if err := s.applyDelta(&raw, delta); err != nil {
			return err
		}
		page.replace(b, b.render(&raw))
		changed := []*pageFile{page}

		if delta.ProjectID != nil && !strings.EqualFold(*delta.ProjectID, page.info.Name) {
			target, err := s.pageFor(pages, *delta.ProjectID)
			if err != nil {
				return err
			}
			moved := page.find(id)
			target.appendLines(page.subtree(moved))
			page.remove(moved)
			raw.Page = target.info.Name
			changed = append(changed, target)
		}
		if err := s.save(ctx, fmt.Sprintf("Update %s", raw.Content), changed...); err != nil {
			return err
		}
		updated = &raw
		return nil
	})
	return updated, err
}

// DeleteBlock removes a block and its children. A missing block is not an error.
func (s *Store) DeleteBlock(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLockWrite(func() error {
		pages, err := s.scan()
		if err != nil {
			return err
		}
		page, b := locate(pages, id)
		if b == nil {
			return nil
		}
		title := b.raw.Content
		page.remove(b)
		return s.save(ctx, fmt.Sprintf("Delete %s", title), page)
	})
}

// GetBlock retrieves a block by id. Returns nil if not found.
func (s *Store) GetBlock(ctx context.Context, id string) (*domain.RawBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found *domain.RawBlock
	err := s.withLock(func() error {
		pages, err := s.scan()
		if err != nil {
			return err
		}
		if _, b := locate(pages, id); b != nil {
			raw := b.raw.Clone()
			found = &raw
		}
		return nil
	})
	return found, err
}

// ListBlocks returns every task block. Blocks without an id get one, which is
// written back to the graph.
func (s *Store) ListBlocks(ctx context.Context) ([]*domain.RawBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*domain.RawBlock
	err := s.withLockWrite(func() error {
		pages, err := s.scan()
		if err != nil {
			return err
		}
		var dirty []*pageFile
		for _, p := range pages {
			tasks := p.tasks()
			assigned := false
			for i := len(tasks) - 1; i >= 0; i-- {
				if b := tasks[i]; b.raw.UUID == "" {
					raw := b.raw.Clone()
					raw.UUID = s.opts.NewID()
					p.replace(b, b.render(&raw))
					assigned = true
				}
			}
			if assigned {
				dirty = append(dirty, p)
			}
			for _, b := range p.tasks() {
				raw := b.raw.Clone()
				out = append(out, &raw)
			}
		}
		if len(dirty) > 0 {
			return s.save(ctx, "Assign block ids", dirty...)
		}
		return nil
	})
	return out, err
}

// GetPage resolves a page by name. Journal names that parse as a date always resolve.
func (s *Store) GetPage(ctx context.Context, name string) (*domain.PageInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var info *domain.PageInfo
	err := s.withLock(func() error {
		pages, err := s.scan()
		if err != nil {
			return err
		}
		if p := findPage(pages, name); p != nil {
			i := p.info
			info = &i
			return nil
		}
		if day, err := time.ParseInLocation(journalLayout, name, s.opts.Location); err == nil {
			i := journalInfo(day)
			info = &i
		}
		return nil
	})
	return info, err
}

// CreatePage creates an empty page, or returns the existing one.
func (s *Store) CreatePage(ctx context.Context, name string) (*domain.PageInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var info *domain.PageInfo
	err := s.withLockWrite(func() error {
		pages, err := s.scan()
		if err != nil {
			return err
		}
		if p := findPage(pages, name); p != nil {
			i := p.info
			info = &i
			return nil
		}
		p := s.newPage(name)
		p.lines = []string{propTitle + ":: " + name}
		if err := s.save(ctx, fmt.Sprintf("Create page %s", name), p); err != nil {
			return err
		}
		i := p.info
		info = &i
		return nil
	})
	return info, err
}

// GetFavorites returns the lower-cased favorite page names from logseq/config.edn.
func (s *Store) GetFavorites(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readFavorites(filepath.Join(s.dir, configEDN))
}

// RetrieveFilteredBlocks evaluates each filter query against every task block.
func (s *Store) RetrieveFilteredBlocks(ctx context.Context, filters []domain.Filter) (domain.FilterMatches, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	queries, err := compileFilters(filters)
	if err != nil {
		return nil, err
	}
	matches := make(domain.FilterMatches, len(filters))
	err = s.withLock(func() error {
		pages, err := s.scan()
		if err != nil {
			return err
		}
		for _, p := range pages {
			for _, b := range p.tasks() {
				if b.raw.UUID == "" {
					continue
				}
				for i, f := range filters {
					if queries[i].Match(b.raw) {
						matches[f.ID] = append(matches[f.ID], b.raw.UUID)
					}
				}
			}
		}
		return nil
	})
	return matches, err
}

// applyDelta writes the changed fields into raw.
func (s *Store) applyDelta(raw *domain.RawBlock, d domain.BlockDelta) error {
	if d.Title != nil {
		raw.Content = *d.Title
	}
	if d.Marker != nil {
		raw.Marker = *d.Marker
	}
	repeater := ""
	if raw.Scheduled != "" {
		if st, err := parseStamp(raw.Scheduled, s.opts.Location); err == nil {
			repeater = st.Repeater
		}
	}
	switch {
	case d.ClearRRule:
		repeater = ""
	case d.RRule != nil:
		repeater = d.RRule.String()
	}
	if d.Placement != nil {
		raw.Scheduled, raw.Deadline = "", ""
		if p := *d.Placement; p.Start != nil {
			start := p.Start.In(s.opts.Location)
			raw.Scheduled = formatStamp(start, !p.AllDay, repeater)
			if p.End != nil {
				raw.Deadline = formatStamp(p.End.In(s.opts.Location), !p.AllDay, "")
			}
		}
	} else if d.RRule != nil || d.ClearRRule {
		if raw.Scheduled != "" {
			st, err := parseStamp(raw.Scheduled, s.opts.Location)
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrInvalidRecurrence, err)
			}
			raw.Scheduled = formatStamp(st.Time, st.HasTime, repeater)
		}
	}
	if repeater != "" && raw.Scheduled == "" {
		return fmt.Errorf("repeater without a scheduled date: %w", domain.ErrInvalidRecurrence)
	}
	if d.EstimatedTime != nil {
		if *d.EstimatedTime == 0 {
			delete(raw.Properties, propEstimate)
		} else {
			raw.Properties[propEstimate] = fmt.Sprint(int(*d.EstimatedTime))
		}
	}
	if d.TimeLogs != nil {
		raw.Logbook = nil
		for _, l := range *d.TimeLogs {
			raw.Logbook = append(raw.Logbook, formatClock(l, s.opts.Location))
		}
	}
	return nil
}

// targetPage loads or creates the page a new block goes to.
func (s *Store) targetPage(draft domain.BlockDraft) (*pageFile, error) {
	pages, err := s.scan()
	if err != nil {
		return nil, err
	}
	if draft.ProjectID != "" {
		return s.pageFor(pages, draft.ProjectID)
	}
	day := s.opts.Clock.Now()
	if draft.Placement.Start != nil {
		day = *draft.Placement.Start
	}
	return s.pageFor(pages, day.In(s.opts.Location).Format(journalLayout))
}

// pageFor returns the scanned page called name, or a new empty one.
func (s *Store) pageFor(pages []*pageFile, name string) (*pageFile, error) {
	if p := findPage(pages, name); p != nil {
		return p, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("page name: %w", domain.ErrEmptyTitle)
	}
	p := s.newPage(name)
	if !p.info.IsJournal {
		p.lines = []string{propTitle + ":: " + name}
	}
	return p, nil
}

// newPage builds an unsaved page file for name.
func (s *Store) newPage(name string) *pageFile {
	if day, err := time.ParseInLocation(journalLayout, name, s.opts.Location); err == nil {
		rel := filepath.Join(journalsDir, name+".md")
		return parsePage(journalInfo(day), filepath.Join(s.dir, rel), rel, "")
	}
	rel := filepath.Join(pagesDir, pageFileName(name)+".md")
	info := domain.PageInfo{Name: strings.ToLower(name), OriginalName: name}
	return parsePage(info, filepath.Join(s.dir, rel), rel, "")
}

// scan reads every page and journal of the graph.
func (s *Store) scan() ([]*pageFile, error) {
	var pages []*pageFile
	for _, sub := range []string{journalsDir, pagesDir} {
		entries, err := os.ReadDir(filepath.Join(s.dir, sub))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", sub, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
				continue
			}
			rel := filepath.Join(sub, e.Name())
			path := filepath.Join(s.dir, rel)
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read page %s: %w", rel, err)
			}
			stem := strings.TrimSuffix(e.Name(), ".md")
			info := domain.PageInfo{Name: strings.ToLower(pageNameOf(stem)), OriginalName: pageNameOf(stem)}
			if sub == journalsDir {
				day, err := time.ParseInLocation(journalLayout, stem, s.opts.Location)
				if err != nil {
					s.opts.Logger.Warn("", "graph", fmt.Sprintf("skipping journal with unexpected name %q", rel))
					continue
				}
				info = journalInfo(day)
			}
			p := parsePage(info, path, rel, string(content))
			if sub == pagesDir && p.info.OriginalName != info.OriginalName {
				// title:: overrides the file name
				p.info.Name = strings.ToLower(p.info.OriginalName)
				p.index()
			}
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// save writes the pages and records them in the history.
func (s *Store) save(ctx context.Context, message string, pages ...*pageFile) error {
	rels := make([]string, 0, len(pages))
	for _, p := range pages {
		if err := os.MkdirAll(filepath.Dir(p.path), 0o750); err != nil {
			return fmt.Errorf("create page directory: %w", err)
		}
		if err := writeAtomic(p.path, []byte(p.content()), 0o644); err != nil {
			return fmt.Errorf("write page %s: %w", p.rel, err)
		}
		rels = append(rels, filepath.ToSlash(p.rel))
	}
	if s.opts.History == nil {
		return nil
	}
	if err := s.opts.History.Record(ctx, rels, message); err != nil {
		s.opts.Logger.Warn("", "graph", fmt.Sprintf("record history: %v", err))
	}
	return nil
}

func (s *Store) withLock(fn func() error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

func (s *Store) withLockWrite(fn func() error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func locate(pages []*pageFile, id string) (*pageFile, *block) {
	if id == "" {
		return nil, nil
	}
	for _, p := range pages {
		if b := p.find(id); b != nil {
			return p, b
		}
	}
	return nil, nil
}

func findPage(pages []*pageFile, name string) *pageFile {
	i := slices.IndexFunc(pages, func(p *pageFile) bool { return strings.EqualFold(p.info.Name, name) })
	if i < 0 {
		return nil
	}
	return pages[i]
}

func journalInfo(day time.Time) domain.PageInfo {
	return domain.PageInfo{
		Name:         day.Format(journalLayout),
		OriginalName: domain.JournalTitle(day),
		JournalDay:   domain.JournalDayOf(day),
		IsJournal:    true,
	}
}

// pageFileName escapes namespace separators the way Logseq does.
func pageFileName(name string) string {
	return strings.ReplaceAll(name, "/", "___")
}

func pageNameOf(stem string) string {
	return strings.ReplaceAll(stem, "___", "/")
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Ensure Store implements the domain ports.
var (
	_ domain.BlockStore       = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
