package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// PageRange is an inclusive page interval.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ParseRanges parses a page range spec like "3", "1-5", or "1,3,7-9".
// An empty spec means every page and parses to nil. Page numbers are
// 1-based; order and overlap are allowed and preserved.
func ParseRanges(spec string) ([]PageRange, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var ranges []PageRange
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty segment in page range %q", spec)
		}

		if start, end, found := strings.Cut(part, "-"); found {
			first, err := parsePageNumber(start)
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			last, err := parsePageNumber(end)
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			if first > last {
				return nil, fmt.Errorf("invalid page range %q: start after end", part)
			}
			ranges = append(ranges, PageRange{Start: first, End: last})
			continue
		}

		page, err := parsePageNumber(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q: %w", part, err)
		}
		ranges = append(ranges, PageRange{Start: page, End: page})
	}

	return ranges, nil
}

func parsePageNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a page number")
	}
	if n < 1 {
		return 0, fmt.Errorf("page numbers start at 1")
	}
	return n, nil
}

// NormalizeRanges clamps ranges to the document's page count and drops
// ranges that fall entirely outside it.
func NormalizeRanges(ranges []PageRange, totalPages int) []PageRange {
	var valid []PageRange
	for _, r := range ranges {
		start := r.Start
		end := r.End
		if start < 1 {
			start = 1
		}
		if end > totalPages {
			end = totalPages
		}
		if start > end {
			continue
		}
		valid = append(valid, PageRange{Start: start, End: end})
	}
	return valid
}

// RangesInclude reports whether page falls inside any range. An empty
// range set includes every page.
func RangesInclude(ranges []PageRange, page int) bool {
	if len(ranges) == 0 {
		return true
	}
	for _, r := range ranges {
		if page >= r.Start && page <= r.End {
			return true
		}
	}
	return false
}
