package graph

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	favoritesPattern = regexp.MustCompile(`:favorites\s*\[([^\]]*)\]`)
	ednStringPattern = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

// readFavorites extracts the :favorites vector of logseq/config.edn.
// A missing file means no favorites.
func readFavorites(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read graph config: %w", err)
	}
	m := favoritesPattern.FindSubmatch(content)
	if m == nil {
		return nil, nil
	}
	var names []string
	for _, s := range ednStringPattern.FindAllSubmatch(m[1], -1) {
		names = append(names, strings.ToLower(string(s[1])))
	}
	return names, nil
}
