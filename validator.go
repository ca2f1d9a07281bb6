package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// minMarkupLength is the threshold below which markup is considered empty
const minMarkupLength = 10

// Tag kinds the unclosed-tag heuristic looks at. Void elements (img, br, hr)
// are deliberately absent.
var containerTags = []string{"div", "section", "header", "footer", "main", "article", "aside", "ul", "figure"}

var openTagPattern = regexp.MustCompile(`<([a-z][a-z0-9]*)[\s>]`)

// ValidateMarkup runs dialect-specific structural checks on a markup string.
// Findings are data, never errors: blocking problems go to Errors, advisory
// ones to Warnings, and Valid is false exactly when Errors is non-empty.
// No model call is made; buildID only attributes debug output.
func ValidateMarkup(buildID, markup string, dialect Dialect) *ValidationResult {
	result := &ValidationResult{}

	if len(strings.TrimSpace(markup)) < minMarkupLength {
		result.Errors = append(result.Errors, "Markup is empty or too short")
		result.Valid = false
		return result
	}

	switch dialect {
	case DialectGutenberg:
		validateGutenberg(markup, result)
	case DialectElementor:
		validateElementor(markup, result)
	case DialectShortcode:
		// Shortcode content has no structure to check beyond non-emptiness;
		// the destination system parses the brackets itself.
	}

	result.Valid = len(result.Errors) == 0
	debugLog("validation for build %s: valid=%v errors=%d warnings=%d",
		buildID, result.Valid, len(result.Errors), len(result.Warnings))
	return result
}

// validateGutenberg checks block-comment balance and scans for unclosed tags
func validateGutenberg(markup string, result *ValidationResult) {
	opening := strings.Count(markup, "<!-- wp:")
	closing := strings.Count(markup, "<!-- /wp:")

	if opening == 0 && closing == 0 {
		// Plain markup without any block markers is tolerated
		result.Warnings = append(result.Warnings, "No Gutenberg block comments found")
	} else if opening != closing {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Unbalanced Gutenberg blocks: %d opening, %d closing", opening, closing))
	}

	if unclosed := findUnclosedTags(markup); len(unclosed) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Possibly unclosed tags: %s", strings.Join(unclosed, ", ")))
	}
}

// validateElementor attempts a full JSON parse. Failure is advisory only:
// the generator's raw-text fallback already tolerates non-JSON bodies.
func validateElementor(markup string, result *ValidationResult) {
	if !json.Valid([]byte(markup)) {
		result.Warnings = append(result.Warnings, "Markup is not valid JSON")
	}
}

// findUnclosedTags is a best-effort scan for container tags opened more often
// than they are closed. It is not a parser; findings are advisory.
func findUnclosedTags(markup string) []string {
	opened := map[string]int{}
	for _, match := range openTagPattern.FindAllStringSubmatch(markup, -1) {
		opened[match[1]]++
	}

	var unclosed []string
	for _, tag := range containerTags {
		if opened[tag] == 0 {
			continue
		}
		closed := strings.Count(markup, "</"+tag+">")
		if opened[tag] > closed {
			unclosed = append(unclosed, tag)
		}
	}
	return unclosed
}
