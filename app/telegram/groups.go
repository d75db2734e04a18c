package telegram

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadGroups reads a newline-delimited groups file. Blank lines and lines
// starting with '#' are ignored; anything after the first comma is a label.
func LoadGroups(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open groups file: %w", err)
	}
	defer f.Close()

	groups, err := ParseGroups(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read groups file %s: %w", path, err)
	}
	return groups, nil
}

func ParseGroups(r io.Reader) ([]string, error) {
	var groups []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, _, _ := strings.Cut(line, ",")
		if id = strings.TrimSpace(id); id != "" {
			groups = append(groups, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}
