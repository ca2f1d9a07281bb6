package main

import (
	"fmt"
	"math"
	"sort"
)

// sectionKinds is the allow-list of node kinds emitted as layout sections
var sectionKinds = map[string]bool{
	"FRAME":     true,
	"COMPONENT": true,
	"INSTANCE":  true,
	"SECTION":   true,
}

// ExtractSections extracts layout sections from a page root. Only visible,
// allow-listed container kinds are emitted; text runs, generic groups and
// hidden nodes are excluded along with their subtrees. The returned list is
// sorted top-to-bottom by vertical position at every nesting level.
func ExtractSections(root *FigmaNode) []Section {
	if root == nil {
		return nil
	}
	sections := make([]Section, 0, len(root.Children))
	for _, child := range root.Children {
		if child == nil || !child.IsVisible() || !sectionKinds[child.Type] {
			continue
		}
		section := Section{
			ID:   child.ID,
			Name: child.Name,
			Kind: child.Type,
			Node: child,
		}
		if child.AbsoluteBoundingBox != nil {
			section.Bounds = *child.AbsoluteBoundingBox
		}
		section.Children = ExtractSections(child)
		sections = append(sections, section)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Bounds.Y < sections[j].Bounds.Y
	})
	return sections
}

// ExtractColors collects the solid fill colors used anywhere in the tree,
// deduplicated by hex value. The walk is independent of section extraction.
func ExtractColors(root *FigmaNode) []ColorToken {
	var colors []ColorToken
	seen := map[string]bool{}

	var walk func(n *FigmaNode)
	walk = func(n *FigmaNode) {
		if n == nil {
			return
		}
		for _, fill := range n.Fills {
			if fill.Type != "SOLID" || fill.Color == nil {
				continue
			}
			if fill.Visible != nil && !*fill.Visible {
				continue
			}
			hex := colorToHex(*fill.Color)
			if seen[hex] {
				continue
			}
			seen[hex] = true
			colors = append(colors, ColorToken{
				Hex: hex,
				R:   fill.Color.R,
				G:   fill.Color.G,
				B:   fill.Color.B,
				A:   fill.Color.A,
			})
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return colors
}

// ExtractTypography collects the text styles used anywhere in the tree,
// deduplicated by the family+weight+size triple.
func ExtractTypography(root *FigmaNode) []FontToken {
	var fonts []FontToken
	seen := map[string]bool{}

	var walk func(n *FigmaNode)
	walk = func(n *FigmaNode) {
		if n == nil {
			return
		}
		if s := n.Style; s != nil && s.FontFamily != "" {
			key := fmt.Sprintf("%s|%g|%g", s.FontFamily, s.FontWeight, s.FontSize)
			if !seen[key] {
				seen[key] = true
				fonts = append(fonts, FontToken{
					Family:     s.FontFamily,
					Weight:     s.FontWeight,
					Size:       s.FontSize,
					LineHeight: s.LineHeightPx,
				})
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return fonts
}

// collectImageNodes returns the identifiers of every node carrying an
// image-type fill. The walk recurses into every child regardless of the
// visibility and kind filters used for section extraction, so image assets
// inside filtered-out containers are still collected.
func collectImageNodes(root *FigmaNode) []string {
	var ids []string

	var walk func(n *FigmaNode)
	walk = func(n *FigmaNode) {
		if n == nil {
			return
		}
		for _, fill := range n.Fills {
			if fill.Type == "IMAGE" {
				ids = append(ids, n.ID)
				break
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return ids
}

// colorToHex converts a normalized RGBA color to an uppercase #RRGGBB value
func colorToHex(c FigmaColor) string {
	return fmt.Sprintf("#%02X%02X%02X",
		int(math.Round(c.R*255)),
		int(math.Round(c.G*255)),
		int(math.Round(c.B*255)))
}
