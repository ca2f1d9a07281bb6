package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// ErrNoContent reports a design fetch that yielded nothing to analyze
var ErrNoContent = errors.New("no content found in design file")

// AnalyzeDesign pulls the design document (whole file or the targeted nodes),
// extracts sections, colors, and typography, collects image-bearing node
// identifiers, and asks the model for a one-paragraph design summary.
// Design-tool API errors propagate unchanged.
func (pb *PageBuilder) AnalyzeDesign(buildID, fileKey string, nodeIDs []string) (*AnalysisResult, error) {
	root, err := pb.resolveRoot(fileKey, nodeIDs)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Sections:     ExtractSections(root),
		Colors:       ExtractColors(root),
		Fonts:        ExtractTypography(root),
		ImageNodeIDs: collectImageNodes(root),
	}

	log.Printf("  → Analyzed design: %d sections, %d colors, %d fonts, %d image nodes",
		len(result.Sections), len(result.Colors), len(result.Fonts), len(result.ImageNodeIDs))

	summary, err := pb.llm.Invoke(buildID, "analyzer", PhaseAnalysis,
		analyzerSystemPrompt(), buildAnalysisMessage(fileKey, result))
	if err != nil {
		return nil, err
	}
	result.Summary = strings.TrimSpace(summary.Text)

	return result, nil
}

// resolveRoot fetches the document tree. With node identifiers the targeted
// nodes become children of a synthetic root in request order; otherwise the
// file's first page is the root.
func (pb *PageBuilder) resolveRoot(fileKey string, nodeIDs []string) (*FigmaNode, error) {
	if len(nodeIDs) > 0 {
		entries, err := pb.figma.GetFileNodes(fileKey, nodeIDs)
		if err != nil {
			return nil, err
		}
		root := &FigmaNode{ID: "0:0", Name: "Selection", Type: "CANVAS"}
		for _, id := range nodeIDs {
			if entry, ok := entries[id]; ok && entry.Document != nil {
				root.Children = append(root.Children, entry.Document)
			}
		}
		if len(root.Children) == 0 {
			return nil, ErrNoContent
		}
		return root, nil
	}

	file, err := pb.figma.GetFile(fileKey)
	if err != nil {
		return nil, err
	}
	if file.Document == nil || len(file.Document.Children) == 0 {
		return nil, ErrNoContent
	}
	return file.Document.Children[0], nil
}

// buildAnalysisMessage embeds the extraction counts and names into the
// summary prompt
func buildAnalysisMessage(fileKey string, analysis *AnalysisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Design file: %s\n\n", fileKey)

	fmt.Fprintf(&sb, "Sections (%d):\n", len(analysis.Sections))
	for _, section := range analysis.Sections {
		fmt.Fprintf(&sb, "- %s (%s, %.0fx%.0f)\n",
			section.Name, section.Kind, section.Bounds.Width, section.Bounds.Height)
	}

	fmt.Fprintf(&sb, "\nColors (%d): ", len(analysis.Colors))
	for i, color := range analysis.Colors {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(color.Hex)
	}

	fmt.Fprintf(&sb, "\nFonts (%d): ", len(analysis.Fonts))
	for i, font := range analysis.Fonts {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %g/%gpx", font.Family, font.Weight, font.Size)
	}

	sb.WriteString("\n\nDescribe this design in one paragraph.")
	return sb.String()
}
