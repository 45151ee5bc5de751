package analysis

import (
	"fmt"
	"strings"
)

// splitLines breaks raw text into lines on any recognized line-break sequence
// (\r\n, \r, or \n). Trailing empty entries are preserved so that callers see
// the same line count regardless of whether the input ends with a newline.
func splitLines(raw string) []string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

// splitCells splits one line on the column delimiter with no merging of
// adjacent delimiters: ",," yields three empty cells.
func splitCells(line string) []string {
	return strings.Split(line, ",")
}

// parseHeader validates that the first line is a non-blank header row and
// returns its cells verbatim. Header names may be empty strings and are not
// deduplicated against each other.
func parseHeader(lines []string) ([]string, error) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("%w: missing header row", ErrInvalidInput)
	}
	return splitCells(lines[0]), nil
}

// parseRows walks every line after the header, skipping blank lines entirely
// and validating that each remaining row has exactly columnCount cells. The
// visit callback receives the cells of each well-formed data row in order.
func parseRows(lines []string, columnCount int, visit func(cells []string)) (int, error) {
	rows := 0
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		cells := splitCells(lines[i])
		if len(cells) != columnCount {
			return 0, fmt.Errorf("%w: row %d has %d cells, header has %d",
				ErrInvalidStructure, rows+1, len(cells), columnCount)
		}
		rows++
		visit(cells)
	}
	return rows, nil
}
