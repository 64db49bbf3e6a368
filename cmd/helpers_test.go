package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOutputWriterDefault(t *testing.T) {
	globalFlags.Out = ""
	w, closeFn, err := outputWriter(os.Stdout)
	if err != nil {
		t.Fatalf("outputWriter default: %v", err)
	}
	if w != os.Stdout {
		t.Fatalf("expected stdout writer passthrough")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("default closer should be nil error, got: %v", err)
	}
}

func TestOutputWriterFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	globalFlags.Out = p
	t.Cleanup(func() { globalFlags.Out = "" })

	w, closeFn, err := outputWriter(os.Stdout)
	if err != nil {
		t.Fatalf("outputWriter file: %v", err)
	}
	if w == os.Stdout {
		t.Fatalf("expected file writer, got stdout")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("closing output writer: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
}

func TestInputFormat(t *testing.T) {
	t.Cleanup(func() { globalFlags.In, globalFlags.InputFormat = "", "" })
	tests := []struct {
		in, flag, def, want string
	}{
		{"", "", inputJSONL, inputJSONL},
		{"", "", inputCSV, inputCSV},
		{"gold.csv", "", inputJSONL, inputCSV},
		{"prices.TSV", "", inputJSONL, inputCSV},
		{"gold.jsonl", "", inputCSV, inputJSONL},
		{"gold.csv", "JSONL", inputCSV, inputJSONL},
		{"data.txt", "", inputJSONL, inputJSONL},
	}
	for _, tc := range tests {
		globalFlags.In, globalFlags.InputFormat = tc.in, tc.flag
		if got := inputFormat(tc.def); got != tc.want {
			t.Errorf("inputFormat(in=%q flag=%q def=%q) = %q, want %q", tc.in, tc.flag, tc.def, got, tc.want)
		}
	}
}

func TestSplitColumns(t *testing.T) {
	got := splitColumns(" Gold_Price_INR, ,Inflation_Rate,")
	want := []string{"Gold_Price_INR", "Inflation_Rate"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitColumns: got %v, want %v", got, want)
	}
	if splitColumns("") != nil {
		t.Error("empty list should give nil")
	}
}

func TestParseCountAllowsZero(t *testing.T) {
	got, err := parseCount("0", "successes")
	if err != nil {
		t.Fatalf("expected zero to be valid, got error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected parsed zero, got %d", got)
	}
	if _, err := parseCount("-3", "total"); err == nil {
		t.Error("negative count should be rejected")
	}
	if _, err := parseCount("many", "total"); err == nil {
		t.Error("non-numeric count should be rejected")
	}
}
