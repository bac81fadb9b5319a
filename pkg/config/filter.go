package config

import (
	"path"
	"strings"
)

// Normalize trims panel selection patterns and removes empty values.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.IncludePanels = normalizePatterns(c.IncludePanels)
	c.ExcludePanels = normalizePatterns(c.ExcludePanels)
}

// IsPanelSelected reports whether a panel title passes the include/exclude
// patterns. An empty include list selects everything; excludes always win.
func (c *Config) IsPanelSelected(title string) bool {
	if c == nil {
		return true
	}

	value := normalizePattern(title)
	if value == "" {
		return false
	}

	for _, pattern := range c.ExcludePanels {
		if patternMatches(pattern, value) {
			return false
		}
	}

	if len(c.IncludePanels) == 0 {
		return true
	}
	for _, pattern := range c.IncludePanels {
		if patternMatches(pattern, value) {
			return true
		}
	}
	return false
}

func normalizePatterns(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, pattern := range values {
		p := normalizePattern(pattern)
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}

func normalizePattern(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func patternMatches(pattern, value string) bool {
	normalizedPattern := normalizePattern(pattern)
	normalizedValue := normalizePattern(value)
	if normalizedPattern == "" || normalizedValue == "" {
		return false
	}

	// Invalid glob patterns are treated as exact matches.
	matched, err := path.Match(normalizedPattern, normalizedValue)
	if err == nil {
		return matched
	}
	return normalizedPattern == normalizedValue
}
