// Package table renders an arbitrary sequence of row objects as a
// searchable, paginated, exportable table without a fixed schema.
package table

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Marker fields probed on the first row to select a presentation variant
const (
	markerShadow   = "shadow_type"
	markerImpact   = "impact_details"
	markerAnalysis = "analysis_type"
)

// Variant is the presentation variant selected from the first row's markers
type Variant int

const (
	// VariantGeneric builds a fully generic column set from the first row
	VariantGeneric Variant = iota
	// VariantShadow is selected when rows carry shadow_type
	VariantShadow
	// VariantImpact is selected when rows carry impact_details
	VariantImpact
	// VariantAnalysis is selected when rows carry analysis_type
	VariantAnalysis
)

// preferredOrder lists the keys shown first for each variant when present.
// Keys outside the list follow in sorted order.
var preferredOrder = map[Variant][]string{
	VariantGeneric:  {"vsys", "seq", "rulename", "enable", "action", "source", "user", "destination", "service", "application", "description", "risk_level"},
	VariantShadow:   {"shadow_type", "vsys", "seq", "rulename", "action", "overlapping", "description"},
	VariantImpact:   {"impact_details", "vsys", "seq", "rulename", "action", "description"},
	VariantAnalysis: {"analysis_type", "policy_number", "description"},
}

// Column is one inferred table column
type Column struct {
	Key   string
	Title string
}

// DetectVariant probes the first row for marker fields. Absent markers fall
// back to the generic variant.
func DetectVariant(rows []map[string]any) Variant {
	if len(rows) == 0 {
		return VariantGeneric
	}
	first := rows[0]
	switch {
	case hasKey(first, markerShadow):
		return VariantShadow
	case hasKey(first, markerImpact):
		return VariantImpact
	case hasKey(first, markerAnalysis):
		return VariantAnalysis
	default:
		return VariantGeneric
	}
}

// InferColumns derives the column set from the first row's keys. Rows are
// assumed homogeneous: keys absent from the first row never render for later
// rows. This first-row-wins behavior is a contract, not a bug.
func InferColumns(rows []map[string]any) []Column {
	if len(rows) == 0 {
		return nil
	}

	first := rows[0]
	variant := DetectVariant(rows)

	seen := make(map[string]bool, len(first))
	keys := make([]string, 0, len(first))
	for _, key := range preferredOrder[variant] {
		if hasKey(first, key) {
			keys = append(keys, key)
			seen[key] = true
		}
	}

	rest := make([]string, 0, len(first))
	for key := range first {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	columns := make([]Column, 0, len(keys))
	for _, key := range keys {
		columns = append(columns, Column{Key: key, Title: Humanize(key)})
	}
	return columns
}

// Humanize turns a key into a header label: separators become spaces and
// each word is capitalized.
func Humanize(key string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ").Replace(key)
	words := strings.Fields(replaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CellString renders one cell value. Sequences join with the given
// delimiter; an object exposing an overlapping_sources sequence renders that
// sequence; other objects serialize to compact JSON; nil renders empty.
func CellString(value any, delimiter string) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, CellString(item, delimiter))
		}
		return strings.Join(parts, delimiter)
	case map[string]any:
		if sources, ok := v["overlapping_sources"].([]any); ok {
			return CellString(sources, delimiter)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Filter returns the rows whose stringified cells contain the query,
// case-insensitive. It is a pure function of (rows, columns, query) and
// never mutates the source rows.
func Filter(rows []map[string]any, columns []Column, query string) []map[string]any {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return rows
	}

	matched := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		for _, col := range columns {
			cell := CellString(row[col.Key], " ")
			if strings.Contains(strings.ToLower(cell), query) {
				matched = append(matched, row)
				break
			}
		}
	}
	return matched
}

// TotalPages returns ceil(rowCount / pageSize), at least 1
func TotalPages(rowCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = 10
	}
	pages := (rowCount + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage bounds a page number to [1, totalPages]
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page returns the rows visible on the given 1-based page
func Page(rows []map[string]any, page, pageSize int) []map[string]any {
	if pageSize <= 0 {
		pageSize = 10
	}
	page = ClampPage(page, TotalPages(len(rows), pageSize))
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// StatCount is one category of the summary
type StatCount struct {
	Label string
	Count int
}

// Stats is the summary computed over the filtered row set
type Stats struct {
	Total  int
	Counts []StatCount
}

// Summarize computes category counts over the rows. The categorization
// depends on the detected variant's marker field; the generic variant counts
// allow/deny actions and high-risk rules when those keys exist, and degrades
// to a bare total when nothing is recognized.
func Summarize(rows []map[string]any) Stats {
	stats := Stats{Total: len(rows)}
	if len(rows) == 0 {
		return stats
	}

	switch DetectVariant(rows) {
	case VariantShadow:
		stats.Counts = countByField(rows, markerShadow)
	case VariantAnalysis:
		stats.Counts = countByField(rows, markerAnalysis)
	case VariantImpact:
		impacted := 0
		for _, row := range rows {
			if CellString(row[markerImpact], " ") != "" {
				impacted++
			}
		}
		stats.Counts = []StatCount{{Label: "With Impact", Count: impacted}}
	default:
		stats.Counts = genericCounts(rows)
	}
	return stats
}

// genericCounts mirrors the classic policy summary: allow/deny rules and
// high-risk rules, each emitted only when the backing key exists.
func genericCounts(rows []map[string]any) []StatCount {
	if !hasKey(rows[0], "action") && !hasKey(rows[0], "risk_level") {
		return nil
	}

	var allow, deny, highRisk int
	for _, row := range rows {
		switch CellString(row["action"], " ") {
		case "allow":
			allow++
		case "deny":
			deny++
		}
		if CellString(row["risk_level"], " ") == "high" {
			highRisk++
		}
	}

	var counts []StatCount
	if hasKey(rows[0], "action") {
		counts = append(counts,
			StatCount{Label: "Allow Rules", Count: allow},
			StatCount{Label: "Deny Rules", Count: deny})
	}
	if hasKey(rows[0], "risk_level") {
		counts = append(counts, StatCount{Label: "High Risk", Count: highRisk})
	}
	return counts
}

// countByField counts rows grouped by the values of one marker field,
// emitted in sorted label order for determinism.
func countByField(rows []map[string]any, field string) []StatCount {
	byValue := map[string]int{}
	for _, row := range rows {
		value := CellString(row[field], " ")
		if value == "" {
			value = "unspecified"
		}
		byValue[value]++
	}

	labels := make([]string, 0, len(byValue))
	for label := range byValue {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	counts := make([]StatCount, 0, len(labels))
	for _, label := range labels {
		counts = append(counts, StatCount{Label: Humanize(label), Count: byValue[label]})
	}
	return counts
}

func hasKey(row map[string]any, key string) bool {
	_, ok := row[key]
	return ok
}
