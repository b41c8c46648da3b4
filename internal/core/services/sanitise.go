package services

import (
	"regexp"
	"strings"
)

var (
	blankLines = regexp.MustCompile(`\n\s*\n`)
	codeFences = regexp.MustCompile("(?s)```.*?```")
	emphasis   = regexp.MustCompile(`\*\*|\*|__|_`)
	headers    = regexp.MustCompile(`(?m)^#+\s*`)
	tableSep   = regexp.MustCompile(`^\s*\|[-\s|]+\|\s*$`)
	tablePipes = regexp.MustCompile(`\s*\|\s*`)
)

// SanitiseAnswer normalises raw model output into plain prose: blank-line
// runs collapse to one, markdown emphasis, headers and code fences are
// stripped, and simple pipe tables are flattened into spaced tokens.
func SanitiseAnswer(text string) string {
	text = cleanWhitespace(text)
	text = stripMarkdown(text)
	text = flattenTables(text)
	return strings.TrimSpace(text)
}

// cleanWhitespace collapses blank-line runs and trims every line.
func cleanWhitespace(text string) string {
	text = blankLines.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// stripMarkdown removes code fences, bold/italic markers and headers.
func stripMarkdown(text string) string {
	text = codeFences.ReplaceAllString(text, "")
	text = emphasis.ReplaceAllString(text, "")
	text = headers.ReplaceAllString(text, "")
	return text
}

// flattenTables drops table separator rows and normalises cell pipes.
func flattenTables(text string) string {
	lines := strings.Split(text, "\n")
	clean := make([]string, 0, len(lines))
	for _, line := range lines {
		if tableSep.MatchString(line) {
			continue
		}
		line = tablePipes.ReplaceAllString(line, " | ")
		clean = append(clean, strings.TrimSpace(line))
	}
	return strings.Join(clean, "\n")
}
