package service

import (
	"encoding/json"
	"strings"

	"github.com/Joseph3331/Layman-law/model"
)

// NormalizeRisks converts whatever the model returned for a risk analysis
// into a non-empty list of uniformly shaped items. Three tiers:
//
//  1. the reply is a JSON array: object elements are mapped field by field,
//     anything else in the array is dropped;
//  2. otherwise every non-blank line becomes one item, rated by keyword;
//  3. a blank reply becomes a single synthetic "Analysis" item.
func NormalizeRisks(reply string) []model.RiskItem {
	var parsed any
	if err := json.Unmarshal([]byte(reply), &parsed); err == nil {
		if list, ok := parsed.([]any); ok {
			items := make([]model.RiskItem, 0, len(list))
			for _, el := range list {
				obj, ok := el.(map[string]any)
				if !ok {
					continue
				}
				items = append(items, model.RiskItem{
					Clause:   firstString(obj, "clause", "title", "name"),
					Severity: parseSeverity(firstString(obj, "severity", "level")),
					Details:  firstString(obj, "details", "explanation"),
				})
			}
			if len(items) > 0 {
				return items
			}
		}
	}

	var items []model.RiskItem
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, model.RiskItem{
			Clause:   truncateRunes(line, 120),
			Severity: rateLine(line),
			Details:  line,
		})
	}
	if len(items) == 0 {
		items = append(items, model.RiskItem{
			Clause:   "Analysis",
			Severity: model.SeverityYellow,
			Details:  strings.TrimSpace(reply),
		})
	}
	return items
}

// NormalizeClauses parses the reply as a JSON object of clause fields. When
// the model did not return an object, the raw reply string is the best
// effort payload.
func NormalizeClauses(reply string) any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(reply), &obj); err == nil {
		return obj
	}
	return reply
}

// firstString returns the value of the first key present in obj as a
// string, or "" if none matches.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k].(string); ok {
			return v
		}
	}
	return ""
}

// parseSeverity matches on the first character of the lower-cased value.
// Unrecognized and missing severities default to Yellow.
func parseSeverity(s string) model.Severity {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "r"):
		return model.SeverityRed
	case strings.HasPrefix(s, "g"):
		return model.SeverityGreen
	default:
		return model.SeverityYellow
	}
}

// rateLine classifies a free-text line by keyword, highest severity first.
func rateLine(line string) model.Severity {
	lower := strings.ToLower(line)
	switch {
	case containsAny(lower, "high", "red", "severe"):
		return model.SeverityRed
	case containsAny(lower, "medium", "yellow", "caution"):
		return model.SeverityYellow
	case containsAny(lower, "low", "green", "minor"):
		return model.SeverityGreen
	default:
		return model.SeverityYellow
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// truncateRunes caps s at n characters without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
