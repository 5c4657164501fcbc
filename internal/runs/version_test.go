package runs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name     string
		dirs     []string
		files    []string
		expected int
	}{
		{
			name:     "empty root",
			expected: 1,
		},
		{
			name:     "gaps use the maximum",
			dirs:     []string{"Run 3 - 01 MARCH 2024 - 10:00 AM", "Run 1 - 01 JANUARY 2024 - 09:00 AM"},
			expected: 4,
		},
		{
			name:     "multi digit numbers",
			dirs:     []string{"Run 9 - X", "Run 12 - Y", "Run 10 - Z"},
			expected: 13,
		},
		{
			name:     "non run folders ignored",
			dirs:     []string{"archive", "Run - 5", "run 7 - lower", "Runs 8 - x", "Run 2 - ok"},
			expected: 3,
		},
		{
			name:     "files named like runs ignored",
			dirs:     []string{"Run 1 - a"},
			files:    []string{"Run 50 - notes.txt"},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for _, d := range tt.dirs {
				if err := os.Mkdir(filepath.Join(root, d), 0755); err != nil {
					t.Fatal(err)
				}
			}
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(root, f), nil, 0644); err != nil {
					t.Fatal(err)
				}
			}

			got, err := NextNumber(root)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestNextNumberMissingRoot(t *testing.T) {
	got, err := NextNumber(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("Expected 1 for a missing root, got %d", got)
	}
}

func TestNewIdentity(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{
			name:     "afternoon",
			now:      time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC),
			expected: "Run 4 - 05 MARCH 2024 - 02:07 PM",
		},
		{
			name:     "morning",
			now:      time.Date(2023, time.November, 21, 9, 30, 0, 0, time.UTC),
			expected: "Run 4 - 21 NOVEMBER 2023 - 09:30 AM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewIdentity(4, tt.now)
			if id.FolderName != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, id.FolderName)
			}
			if id.Number != 4 {
				t.Errorf("Expected number 4, got %d", id.Number)
			}
			if _, ok := RunNumber(id.FolderName); !ok {
				t.Error("Generated folder name must be recognised as a run folder")
			}
		})
	}
}
