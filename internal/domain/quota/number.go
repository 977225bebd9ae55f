package quota

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samvyt/rifa/internal/shared/errors"
)

// MinNumberWidth is the narrowest quota number ("00001").
const MinNumberWidth = 5

// WidthFor returns the digit width that fits total, never below minWidth.
func WidthFor(total, minWidth int) int {
	if minWidth < 1 {
		minWidth = MinNumberWidth
	}
	if w := len(strconv.Itoa(total)); w > minWidth {
		return w
	}
	return minWidth
}

// FormatNumber zero-pads n to width digits.
func FormatNumber(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// Numbers returns every formatted number 1..total, ascending.
func Numbers(total, width int) []string {
	out := make([]string, total)
	for i := 1; i <= total; i++ {
		out[i-1] = FormatNumber(i, width)
	}
	return out
}

// NormalizeNumbers parses raw numbers ("7", "00007"), rejects anything outside
// 1..total, removes duplicates and returns them formatted and ascending.
func NormalizeNumbers(raw []string, width, total int) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.NewValidationError("at least one quota number is required")
	}

	seen := make(map[int]struct{}, len(raw))
	var invalid []string
	for _, r := range raw {
		s := strings.TrimSpace(r)
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > total || len(s) > width {
			invalid = append(invalid, r)
			continue
		}
		seen[n] = struct{}{}
	}
	if len(invalid) > 0 {
		return nil, errors.NewValidationError("quota numbers out of range", strings.Join(invalid, ","))
	}

	ints := make([]int, 0, len(seen))
	for n := range seen {
		ints = append(ints, n)
	}
	sort.Ints(ints)

	out := make([]string, len(ints))
	for i, n := range ints {
		out[i] = FormatNumber(n, width)
	}
	return out, nil
}
