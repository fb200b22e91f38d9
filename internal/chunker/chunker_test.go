package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultConfig(), wantErr: false},
		{name: "no overlap", cfg: Config{Size: 3, Overlap: 0}, wantErr: false},
		{name: "zero size", cfg: Config{Size: 0, Overlap: 0}, wantErr: true},
		{name: "negative size", cfg: Config{Size: -1, Overlap: 0}, wantErr: true},
		{name: "negative overlap", cfg: Config{Size: 5, Overlap: -1}, wantErr: true},
		{name: "overlap equals size", cfg: Config{Size: 5, Overlap: 5}, wantErr: true},
		{name: "overlap exceeds size", cfg: Config{Size: 3, Overlap: 7}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplit_InvalidConfigFailsBeforeChunking(t *testing.T) {
	_, err := Split("a\nb\nc\n", Config{Size: 2, Overlap: 2})
	if err == nil {
		t.Fatal("expected error for overlap >= size")
	}
	if !strings.Contains(err.Error(), "overlap") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	text := "Paris is the capital of France.\n\nIt has over 2 million residents.\n\nThe Eiffel Tower is there.\n\n"

	chunks, err := Split(text, DefaultConfig())
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for 3 units with size 5, got %d", len(chunks))
	}

	want := "Paris is the capital of France.\nIt has over 2 million residents.\nThe Eiffel Tower is there."
	if chunks[0] != want {
		t.Errorf("chunk = %q, want %q", chunks[0], want)
	}
}

func TestSplit_EmptyText(t *testing.T) {
	for _, text := range []string{"", "\n\n\n", "   \n\t\n"} {
		chunks, err := Split(text, DefaultConfig())
		if err != nil {
			t.Fatalf("Split(%q) failed: %v", text, err)
		}
		if len(chunks) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", text, len(chunks))
		}
	}
}

func TestSplit_WindowAdvanceAndOverlap(t *testing.T) {
	// 7 units, size 3, overlap 1: windows start at 0, 2, 4, 6.
	text := "u0\nu1\nu2\nu3\nu4\nu5\nu6"

	chunks, err := Split(text, Config{Size: 3, Overlap: 1})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	want := []string{
		"u0\nu1\nu2",
		"u2\nu3\nu4",
		"u4\nu5\nu6",
		"u6",
	}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %v, want %d", len(chunks), chunks, len(want))
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplit_FinalShortChunkEmitted(t *testing.T) {
	// 6 units, size 5, overlap 1: second window holds only units 4-5.
	text := "a\nb\nc\nd\ne\nf"

	chunks, err := Split(text, Config{Size: 5, Overlap: 1})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks %v, want 2", len(chunks), chunks)
	}
	if chunks[1] != "e\nf" {
		t.Errorf("final chunk = %q, want %q", chunks[1], "e\nf")
	}
}

// Every unit of the source text must survive chunking in order, duplicated
// only inside the explicit overlap regions.
func TestSplit_UnitsReconstruct(t *testing.T) {
	const n = 23
	var lines []string
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("unit %02d", i))
	}
	text := strings.Join(lines, "\n\n")

	cfg := DefaultConfig()
	chunks, err := Split(text, cfg)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	step := cfg.Size - cfg.Overlap
	var reconstructed []string
	for i, chunk := range chunks {
		units := strings.Split(chunk, Joiner)
		if i == 0 {
			reconstructed = append(reconstructed, units...)
			continue
		}
		// Skip the units already contributed by the previous window.
		expectedStart := i * step
		already := len(reconstructed) - expectedStart
		if already < 0 || already > len(units) {
			t.Fatalf("chunk %d starts at unexpected offset (have %d units, window start %d)",
				i, len(reconstructed), expectedStart)
		}
		for j := 0; j < already; j++ {
			if reconstructed[expectedStart+j] != units[j] {
				t.Fatalf("overlap mismatch at chunk %d unit %d: %q vs %q",
					i, j, reconstructed[expectedStart+j], units[j])
			}
		}
		reconstructed = append(reconstructed, units[already:]...)
	}

	if len(reconstructed) != n {
		t.Fatalf("reconstructed %d units, want %d", len(reconstructed), n)
	}
	for i, u := range reconstructed {
		if u != lines[i] {
			t.Errorf("unit %d = %q, want %q", i, u, lines[i])
		}
	}
}

func TestTokenize(t *testing.T) {
	units := Tokenize("first line\n\n  second line  \n\t\nthird")
	want := []string{"first line", "second line", "third"}
	if len(units) != len(want) {
		t.Fatalf("got %v, want %v", units, want)
	}
	for i := range want {
		if units[i] != want[i] {
			t.Errorf("unit %d = %q, want %q", i, units[i], want[i])
		}
	}
}
