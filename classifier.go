package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Default classification applied when the model response cannot be parsed
const (
	defaultSectionType = "content"
	defaultSectionTier = 2
)

// ClassifySections asks the model to label each section with a semantic type,
// complexity tier, and description. The model may wrap its JSON in prose, so
// only the first balanced array substring is parsed; if nothing parseable is
// found every section falls back to the default classification rather than
// failing the phase, so generation can always proceed.
func (pb *PageBuilder) ClassifySections(buildID string, sections []Section) (*ClassificationResult, error) {
	if len(sections) == 0 {
		return &ClassificationResult{Classes: []SectionClass{}}, nil
	}

	response, err := pb.llm.Invoke(buildID, "classifier", PhaseClassification,
		classifierSystemPrompt(), buildClassificationMessage(sections))
	if err != nil {
		return nil, err
	}

	parsed, ok := parseClassificationResponse(response.Text)
	if !ok {
		log.Printf("  ✗ Classification response not parseable, using default classification")
		return &ClassificationResult{Classes: fallbackClasses(sections), Fallback: true}, nil
	}

	// Align parsed entries to the input sections by identifier so the output
	// is always one classification per section, in input order. Sections the
	// model skipped get their own default, never a shared object.
	byID := make(map[string]SectionClass, len(parsed))
	for _, class := range parsed {
		if _, exists := byID[class.SectionID]; !exists {
			byID[class.SectionID] = class
		}
	}

	classes := make([]SectionClass, 0, len(sections))
	for _, section := range sections {
		class, found := byID[section.ID]
		if !found {
			class = defaultClass(section)
		}
		class.SectionID = section.ID
		class.SectionName = section.Name
		if class.Type == "" {
			class.Type = defaultSectionType
		}
		if class.Tier < 1 || class.Tier > 4 {
			class.Tier = defaultSectionTier
		}
		classes = append(classes, class)
	}

	return &ClassificationResult{Classes: classes}, nil
}

// buildClassificationMessage enumerates each section's identity and bounds
func buildClassificationMessage(sections []Section) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Classify these %d sections:\n\n", len(sections))
	for i, section := range sections {
		fmt.Fprintf(&sb, "%d. id=%q name=%q bounds=(x=%.0f y=%.0f w=%.0f h=%.0f)\n",
			i+1, section.ID, section.Name,
			section.Bounds.X, section.Bounds.Y, section.Bounds.Width, section.Bounds.Height)
	}
	return sb.String()
}

// parseClassificationResponse extracts and parses the first balanced JSON
// array in the model's raw text
func parseClassificationResponse(text string) ([]SectionClass, bool) {
	candidate := extractBalancedArray(text)
	if candidate == "" {
		return nil, false
	}
	var parsed []SectionClass
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// extractBalancedArray returns the first syntactically balanced [...]
// substring of text, accounting for strings and escapes, or "" if none exists
func extractBalancedArray(text string) string {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '[':
			depth++
		case !inString && c == ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// fallbackClasses builds the uniform default classification, one fresh
// object per section
func fallbackClasses(sections []Section) []SectionClass {
	classes := make([]SectionClass, 0, len(sections))
	for _, section := range sections {
		classes = append(classes, defaultClass(section))
	}
	return classes
}

func defaultClass(section Section) SectionClass {
	return SectionClass{
		SectionID:   section.ID,
		SectionName: section.Name,
		Type:        defaultSectionType,
		Tier:        defaultSectionTier,
		Description: fmt.Sprintf("Content section %q", section.Name),
	}
}
