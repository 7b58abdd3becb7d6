package utils

import "strings"

// SplitList splits a comma-separated query value into trimmed, non-empty,
// de-duplicated items in first-seen order. normalize, when non-nil, is applied
// before de-duplication. Returns nil when nothing remains.
func SplitList(s string, normalize func(string) string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var result []string
	seen := make(map[string]bool)
	for _, v := range strings.Split(s, ",") {
		item := strings.TrimSpace(v)
		if normalize != nil {
			item = normalize(item)
		}
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}

	if len(result) == 0 {
		return nil
	}

	return result
}
