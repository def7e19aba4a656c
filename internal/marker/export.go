// ABOUTME: In-memory export of marker positions
// ABOUTME: Serializes index-ordered integer milliseconds as a bracketed list
package marker

import (
	"fmt"
	"math"
	"strings"
)

// ExportPositions serializes marker positions in index order as a
// bracketed comma-separated millisecond list, e.g. "[120, 980, 2310]".
func (s *Store) ExportPositions() string {
	ordered := s.sortedByIndex()

	parts := make([]string, len(ordered))
	for i, m := range ordered {
		parts[i] = fmt.Sprintf("%d", int(math.Round(m.PositionMs)))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
