package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// dialectInstructions holds the format-specific portion of the generation prompt
var dialectInstructions = map[Dialect]string{
	DialectGutenberg: `Target format: WordPress Gutenberg block markup.
Wrap every block in balanced block comments, for example:
<!-- wp:group {"className":"hero"} -->
<div class="wp-block-group hero">...</div>
<!-- /wp:group -->
Use core blocks (group, columns, heading, paragraph, image, buttons) only.`,

	DialectElementor: `Target format: Elementor page JSON.
The "markup" field must contain a JSON document describing the page: an array
of section objects, each with "elType", "settings", and nested "elements".
Use standard Elementor widget types (heading, text-editor, image, button).`,

	DialectShortcode: `Target format: bracketed shortcode tags.
Compose the page from shortcodes such as [section]...[/section],
[row]...[/row], [column]...[/column], [heading level="2"]...[/heading],
[button url="#"]...[/button]. No raw HTML outside shortcodes.`,
}

// GenerateMarkup asks the model to emit page markup in the target dialect
// from the classified sections and design tokens. A response that is not
// parseable JSON is not an error: the raw text becomes the markup body with
// an empty per-section list.
func (pb *PageBuilder) GenerateMarkup(buildID string, dialect Dialect, sections []Section,
	classes []SectionClass, colors []ColorToken, fonts []FontToken, stylesheet string) (*MarkupResult, error) {

	instructions, ok := dialectInstructions[dialect]
	if !ok {
		return nil, fmt.Errorf("unknown dialect: %s", dialect)
	}

	message := buildGenerationMessage(instructions, sections, classes, colors, fonts, stylesheet)

	response, err := pb.llm.Invoke(buildID, "generator", PhaseGeneration,
		generatorSystemPrompt(), message)
	if err != nil {
		return nil, err
	}

	result := parseMarkupResponse(response.Text)
	result.Dialect = dialect
	if result.Fallback {
		log.Printf("  ✗ Generator response not parseable JSON, using raw text as markup")
	}

	return result, nil
}

// buildGenerationMessage assembles the dialect prompt with every design token
// embedded: colors as hex values, fonts as "family, weight, sizepx"
func buildGenerationMessage(instructions string, sections []Section, classes []SectionClass,
	colors []ColorToken, fonts []FontToken, stylesheet string) string {

	classByID := make(map[string]SectionClass, len(classes))
	for _, class := range classes {
		classByID[class.SectionID] = class
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n## Sections\n")
	for i, section := range sections {
		class := classByID[section.ID]
		fmt.Fprintf(&sb, "%d. %s - type=%s tier=%d: %s\n",
			i+1, section.Name, class.Type, class.Tier, class.Description)
	}

	sb.WriteString("\n## Colors\n")
	for _, color := range colors {
		fmt.Fprintf(&sb, "- %s\n", color.Hex)
	}

	sb.WriteString("\n## Fonts\n")
	for _, font := range fonts {
		fmt.Fprintf(&sb, "- %s, %g, %gpx\n", font.Family, font.Weight, font.Size)
	}

	if stylesheet != "" {
		sb.WriteString("\n## Global stylesheet\n")
		sb.WriteString(stylesheet)
		sb.WriteString("\n")
	}

	return sb.String()
}

// parseMarkupResponse decodes the model response as {markup, sections} JSON.
// Markdown fences around the JSON are tolerated. Anything else degrades to
// the verbatim raw text as the whole-page markup.
func parseMarkupResponse(raw string) *MarkupResult {
	var parsed struct {
		Markup   string   `json:"markup"`
		Sections []string `json:"sections"`
	}

	for _, candidate := range []string{strings.TrimSpace(raw), stripCodeFence(raw)} {
		if candidate == "" {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil && parsed.Markup != "" {
			return &MarkupResult{Markup: parsed.Markup, Sections: parsed.Sections}
		}
	}

	return &MarkupResult{Markup: raw, Sections: []string{}, Fallback: true}
}

// stripCodeFence returns the content inside a ```...``` fence, or "" if the
// text is not fenced
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	end := strings.LastIndex(trimmed, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(trimmed[:end])
}
