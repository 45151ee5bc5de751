package analysis

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "unix endings", raw: "a\nb\nc", want: []string{"a", "b", "c"}},
		{name: "windows endings", raw: "a\r\nb\r\nc", want: []string{"a", "b", "c"}},
		{name: "old mac endings", raw: "a\rb\rc", want: []string{"a", "b", "c"}},
		{name: "mixed endings", raw: "a\r\nb\nc\rd", want: []string{"a", "b", "c", "d"}},
		{name: "trailing newline preserved as empty entry", raw: "a\nb\n", want: []string{"a", "b", ""}},
		{name: "interior blank line preserved", raw: "a\n\nb", want: []string{"a", "", "b"}},
		{name: "single line", raw: "a", want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSplitCells(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "simple", line: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "adjacent delimiters keep empty cell", line: "a,,c", want: []string{"a", "", "c"}},
		{name: "trailing delimiter keeps empty cell", line: "a,b,", want: []string{"a", "b", ""}},
		{name: "lone delimiter is two empty cells", line: ",", want: []string{"", ""}},
		{name: "no delimiter", line: "abc", want: []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCells(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitCells(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseHeader(t *testing.T) {
	t.Run("valid header", func(t *testing.T) {
		header, err := parseHeader([]string{"driver,number,team", "row"})
		if err != nil {
			t.Fatalf("parseHeader returned error: %v", err)
		}
		want := []string{"driver", "number", "team"}
		if !reflect.DeepEqual(header, want) {
			t.Errorf("header = %q, want %q", header, want)
		}
	})

	t.Run("empty header names kept verbatim", func(t *testing.T) {
		header, err := parseHeader([]string{"a,,c"})
		if err != nil {
			t.Fatalf("parseHeader returned error: %v", err)
		}
		if !reflect.DeepEqual(header, []string{"a", "", "c"}) {
			t.Errorf("header = %q", header)
		}
	})

	t.Run("blank first line rejected", func(t *testing.T) {
		_, err := parseHeader([]string{"   ", "a,b"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("no lines rejected", func(t *testing.T) {
		_, err := parseHeader(nil)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})
}

func TestParseRows(t *testing.T) {
	t.Run("counts well-formed rows and skips blanks", func(t *testing.T) {
		lines := []string{"a,b", "1,2", "", "  ", "3,4", ""}
		var seen [][]string
		rows, err := parseRows(lines, 2, func(cells []string) {
			seen = append(seen, append([]string(nil), cells...))
		})
		if err != nil {
			t.Fatalf("parseRows returned error: %v", err)
		}
		if rows != 2 {
			t.Errorf("rows = %d, want 2", rows)
		}
		want := [][]string{{"1", "2"}, {"3", "4"}}
		if !reflect.DeepEqual(seen, want) {
			t.Errorf("visited cells = %q, want %q", seen, want)
		}
	})

	t.Run("cell count mismatch rejected", func(t *testing.T) {
		lines := []string{"a,b", "1,2", "3"}
		_, err := parseRows(lines, 2, func([]string) {})
		if !errors.Is(err, ErrInvalidStructure) {
			t.Errorf("err = %v, want ErrInvalidStructure", err)
		}
	})

	t.Run("too many cells rejected", func(t *testing.T) {
		lines := []string{"a,b", "1,2,3"}
		_, err := parseRows(lines, 2, func([]string) {})
		if !errors.Is(err, ErrInvalidStructure) {
			t.Errorf("err = %v, want ErrInvalidStructure", err)
		}
	})
}
