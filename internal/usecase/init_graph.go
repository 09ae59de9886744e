package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runoshun/git-agenda/internal/domain"
)

// InitGraphInput contains the input parameters for InitGraph.
type InitGraphInput struct {
	AgendaDir string // Path to the .agenda directory
	GraphDir  string // Path to the graph root
}

// InitGraphOutput contains the output from InitGraph.
type InitGraphOutput struct {
	AgendaDir          string // Path to the agenda directory
	AlreadyInitialized bool   // True if the graph was already set up
	GitignoreNeedsAdd  bool   // True if .agenda/logs is not ignored by git
}

// filtersTemplate is written to a fresh filters.yaml.
const filtersTemplate = `# Filters select tasks by page, tag, marker or text.
# Terms are separated by spaces and must all match.
#
# filters:
#   - id: work
#     name: Work
#     query: "page:work marker:TODO"
#     color: "#4f7cff"
filters: []
`

// InitGraph prepares a graph for git-agenda.
type InitGraph struct {
	storeInit domain.StoreInitializer
}

// NewInitGraph creates a new InitGraph use case.
func NewInitGraph(storeInit domain.StoreInitializer) *InitGraph {
	return &InitGraph{storeInit: storeInit}
}

// Execute creates the agenda directory, a filters template and the graph layout.
// It is safe to run on an initialized graph.
func (uc *InitGraph) Execute(_ context.Context, in InitGraphInput) (*InitGraphOutput, error) {
	already := uc.storeInit.IsInitialized()

	if err := os.MkdirAll(filepath.Join(in.AgendaDir, "logs"), 0o750); err != nil {
		return nil, fmt.Errorf("create agenda directory: %w", err)
	}
	filtersPath := filepath.Join(in.AgendaDir, domain.FiltersFileName)
	if _, err := os.Stat(filtersPath); os.IsNotExist(err) {
		if err := os.WriteFile(filtersPath, []byte(filtersTemplate), 0o600); err != nil {
			return nil, fmt.Errorf("create filters file: %w", err)
		}
	}

	if err := uc.storeInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize graph: %w", err)
	}

	return &InitGraphOutput{
		AgendaDir:          in.AgendaDir,
		AlreadyInitialized: already,
		GitignoreNeedsAdd:  in.GraphDir != "" && !logsIgnored(in.GraphDir),
	}, nil
}

// logsIgnored reports whether .gitignore excludes the agenda logs and state.
func logsIgnored(graphDir string) bool {
	content, err := os.ReadFile(filepath.Join(graphDir, ".gitignore"))
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(content), "\n") {
		switch strings.TrimSpace(line) {
		case domain.AgendaDirName, domain.AgendaDirName + "/", domain.AgendaDirName + "/logs", domain.AgendaDirName + "/logs/":
			return true
		}
	}
	return false
}
