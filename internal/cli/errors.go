package cli

import (
	"errors"
	"strings"

	"github.com/runoshun/git-agenda/internal/domain"
)

// FormatError renders a command error for the terminal.
func FormatError(err error) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(err.Error())
	switch {
	case errors.Is(err, domain.ErrEditLocked):
		b.WriteString("\nHint: the dates of a recurring task come from its SCHEDULED repeater; edit the block in the graph, or use 'agenda done' to complete this occurrence.")
	case errors.Is(err, domain.ErrNotInitialized):
		b.WriteString("\nHint: run 'agenda init' in the graph directory, or pass --graph.")
	case errors.Is(err, domain.ErrTaskNotFound):
		b.WriteString("\nHint: 'agenda list --all' shows the ids of every task.")
	}
	return b.String()
}
