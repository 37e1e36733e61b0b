package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// maxRangeWeeks bounds --range so a typo cannot queue thousands of requests.
const maxRangeWeeks = 200

// parseRange parses "3-5" into [3 4 5]. A single number is a range of one.
func parseRange(s string) ([]int, error) {
	from, to, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		to = from
	}

	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: use START-END, e.g. 3-5", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: use START-END, e.g. 3-5", s)
	}

	switch {
	case start < 1:
		return nil, fmt.Errorf("invalid range %q: weeks start at 1", s)
	case end < start:
		return nil, fmt.Errorf("invalid range %q: end before start", s)
	case end-start+1 > maxRangeWeeks:
		return nil, fmt.Errorf("invalid range %q: more than %d weeks", s, maxRangeWeeks)
	}

	weeks := make([]int, 0, end-start+1)
	for w := start; w <= end; w++ {
		weeks = append(weeks, w)
	}
	return weeks, nil
}
