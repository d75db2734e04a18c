package telegram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseGroups(t *testing.T) {
	input := `# community groups
-1001234567890, Go devs

  42  
777,Second,extra
   # indented comment
`

	groups, err := ParseGroups(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"-1001234567890", "42", "777"}
	if len(groups) != len(expected) {
		t.Fatalf("Expected %d groups, got %d: %v", len(expected), len(groups), groups)
	}
	for i, g := range expected {
		if groups[i] != g {
			t.Errorf("Expected group %d to be %q, got %q", i, g, groups[i])
		}
	}
}

func TestLoadGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.txt")
	if err := os.WriteFile(path, []byte("1\n2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	groups, err := LoadGroups(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Errorf("Expected 2 groups, got %d", len(groups))
	}

	if _, err := LoadGroups(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for missing groups file")
	}
}
