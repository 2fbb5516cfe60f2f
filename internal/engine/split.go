package engine

import "strings"

// splitFields splits s on delim, at most maxSplit times (maxSplit < 0 means
// unbounded). A trailing empty field after the final delimiter is dropped;
// interior empty fields are kept, so "do::1" yields three fields while
// "do:1:2:" yields three as well.
func splitFields(s, delim string, maxSplit int) []string {
	var fields []string

	for maxSplit != 0 {
		pos := strings.Index(s, delim)
		if pos < 0 {
			break
		}
		fields = append(fields, s[:pos])
		s = s[pos+len(delim):]
		maxSplit--
	}

	if s != "" {
		fields = append(fields, s)
	}

	return fields
}
