package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/spf13/cobra"
)

// GlobalOptions are the persistent flags the container depends on.
type GlobalOptions struct {
	GraphDir string
	Verbose  bool
}

// ParseGlobalOptions extracts --graph and --verbose from the raw arguments so
// the container can be built before cobra runs.
func ParseGlobalOptions(args []string) GlobalOptions {
	var opts GlobalOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		switch {
		case arg == "--verbose":
			opts.Verbose = true
		case arg == "--graph" || arg == "-g":
			if i+1 < len(args) {
				opts.GraphDir = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--graph="):
			opts.GraphDir = strings.TrimPrefix(arg, "--graph=")
		case strings.HasPrefix(arg, "-g="):
			opts.GraphDir = strings.TrimPrefix(arg, "-g=")
		}
	}
	return opts
}

// AppOptions converts the global flags to container options.
func (o GlobalOptions) AppOptions(stderr io.Writer) app.Options {
	opts := app.Options{GraphDir: o.GraphDir}
	if o.Verbose {
		opts.Verbose = stderr
	}
	return opts
}

// parseDay parses a date flag: YYYY-MM-DD, today, tomorrow or yesterday.
func parseDay(s string, now time.Time) (time.Time, error) {
	today := domain.DateOf(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	t, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD, today, tomorrow or yesterday", s)
	}
	return t, nil
}

// parseInstant parses "YYYY-MM-DD HH:MM", "YYYY-MM-DDTHH:MM" or "HH:MM" (today).
func parseInstant(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if tod, err := domain.ParseTimeOfDay(s); err == nil && len(s) <= len("15:04") {
		return tod.On(now), nil
	}
	for _, layout := range []string{domain.DateTimeFormat, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want \"YYYY-MM-DD HH:MM\" or HH:MM", s)
}

// parseEstimate parses minutes ("45") or a duration ("1h30m"). Zero clears the estimate.
func parseEstimate(s string) (domain.Minutes, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("invalid estimate %q", s)
		}
		return domain.Minutes(n), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid estimate %q: want minutes or a duration like 1h30m", s)
	}
	return domain.Minutes(d / time.Minute), nil
}

// resolveTaskID accepts a full block id or a unique prefix of one.
func resolveTaskID(ctx context.Context, c *app.Container, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("task id required: %w", domain.ErrTaskNotFound)
	}
	raw, err := c.Blocks.GetBlock(ctx, arg)
	if err != nil {
		return "", err
	}
	if raw != nil {
		return raw.UUID, nil
	}
	blocks, err := c.Blocks.ListBlocks(ctx)
	if err != nil {
		return "", err
	}
	var found []string
	for _, b := range blocks {
		if strings.HasPrefix(b.UUID, arg) {
			found = append(found, b.UUID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%s: %w", arg, domain.ErrTaskNotFound)
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("task id %q is ambiguous (%d matches)", arg, len(found))
}

// shortID abbreviates a block id for listings.
func shortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// now returns the container's current time in the graph's location.
func now(c *app.Container) time.Time {
	t := c.Clock.Now()
	if c.Settings.Location != nil {
		t = t.In(c.Settings.Location)
	}
	return t
}

// printNotice writes the filter notice of a hidden task to stderr.
func printNotice(cmd *cobra.Command, v domain.Visibility) {
	if msg := v.Notice(); msg != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", msg)
	}
}
