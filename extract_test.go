package main

import (
	"reflect"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func frame(id, name string, y float64, children ...*FigmaNode) *FigmaNode {
	return &FigmaNode{
		ID:                  id,
		Name:                name,
		Type:                "FRAME",
		AbsoluteBoundingBox: &BoundingBox{X: 0, Y: y, Width: 1440, Height: 600},
		Children:            children,
	}
}

func TestExtractSectionsOrder(t *testing.T) {
	root := &FigmaNode{
		ID:   "0:1",
		Type: "CANVAS",
		Children: []*FigmaNode{
			frame("1:2", "Features", 800),
			frame("1:1", "Header", 0),
		},
	}

	sections := ExtractSections(root)

	var names []string
	for _, s := range sections {
		names = append(names, s.Name)
	}
	if !reflect.DeepEqual(names, []string{"Header", "Features"}) {
		t.Errorf("section order = %v, want [Header Features]", names)
	}
}

func TestExtractSectionsFiltering(t *testing.T) {
	hidden := frame("1:3", "Hidden Hero", 100)
	hidden.Visible = boolPtr(false)

	root := &FigmaNode{
		ID:   "0:1",
		Type: "CANVAS",
		Children: []*FigmaNode{
			frame("1:1", "Hero", 0),
			hidden,
			{ID: "1:4", Name: "Some Text", Type: "TEXT"},
			{ID: "1:5", Name: "Loose Group", Type: "GROUP"},
			{ID: "1:6", Name: "Pricing", Type: "COMPONENT",
				AbsoluteBoundingBox: &BoundingBox{Y: 900, Width: 1440, Height: 400}},
		},
	}

	sections := ExtractSections(root)

	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2: %+v", len(sections), sections)
	}
	if sections[0].Name != "Hero" || sections[1].Name != "Pricing" {
		t.Errorf("sections = [%s, %s], want [Hero, Pricing]", sections[0].Name, sections[1].Name)
	}
	if sections[1].Kind != "COMPONENT" {
		t.Errorf("kind = %s, want COMPONENT", sections[1].Kind)
	}
	if sections[0].Node == nil || sections[0].Node.ID != "1:1" {
		t.Error("section does not link back to its originating node")
	}
}

func TestExtractSectionsNested(t *testing.T) {
	root := &FigmaNode{
		ID:   "0:1",
		Type: "CANVAS",
		Children: []*FigmaNode{
			frame("1:1", "Hero", 0,
				frame("2:2", "Hero Right", 50),
				frame("2:1", "Hero Left", 10),
			),
		},
	}

	sections := ExtractSections(root)
	if len(sections) != 1 {
		t.Fatalf("got %d top-level sections, want 1", len(sections))
	}
	children := sections[0].Children
	if len(children) != 2 || children[0].Name != "Hero Left" || children[1].Name != "Hero Right" {
		t.Errorf("nested children = %+v, want [Hero Left, Hero Right]", children)
	}
}

func TestExtractColorsDedupe(t *testing.T) {
	blue := &FigmaColor{R: 0, G: 0.4, B: 1, A: 1}
	root := &FigmaNode{
		ID:   "0:1",
		Type: "CANVAS",
		Children: []*FigmaNode{
			{ID: "1:1", Type: "FRAME", Fills: []FigmaPaint{{Type: "SOLID", Color: blue}}},
			{ID: "1:2", Type: "FRAME", Fills: []FigmaPaint{{Type: "SOLID", Color: blue}}},
			{ID: "1:3", Type: "FRAME", Fills: []FigmaPaint{
				{Type: "SOLID", Color: &FigmaColor{R: 1, G: 1, B: 1, A: 1}},
				{Type: "IMAGE"},
				{Type: "SOLID", Visible: boolPtr(false), Color: &FigmaColor{R: 1, G: 0, B: 0, A: 1}},
			}},
		},
	}

	colors := ExtractColors(root)

	if len(colors) != 2 {
		t.Fatalf("got %d colors, want 2: %+v", len(colors), colors)
	}
	if colors[0].Hex != "#0066FF" {
		t.Errorf("hex = %s, want #0066FF", colors[0].Hex)
	}
	if colors[1].Hex != "#FFFFFF" {
		t.Errorf("hex = %s, want #FFFFFF", colors[1].Hex)
	}
	if colors[0].G != 0.4 {
		t.Errorf("token lost its source RGBA: %+v", colors[0])
	}
}

func TestExtractTypography(t *testing.T) {
	inter16 := &FigmaTypeStyle{FontFamily: "Inter", FontWeight: 400, FontSize: 16, LineHeightPx: 24}
	root := &FigmaNode{
		ID:   "0:1",
		Type: "CANVAS",
		Children: []*FigmaNode{
			{ID: "1:1", Type: "TEXT", Style: inter16},
			{ID: "1:2", Type: "TEXT", Style: inter16},
			{ID: "1:3", Type: "TEXT", Style: &FigmaTypeStyle{FontFamily: "Inter", FontWeight: 700, FontSize: 16}},
			{ID: "1:4", Type: "FRAME", Children: []*FigmaNode{
				{ID: "2:1", Type: "TEXT", Style: &FigmaTypeStyle{FontFamily: "Lora", FontWeight: 400, FontSize: 32}},
			}},
		},
	}

	fonts := ExtractTypography(root)

	if len(fonts) != 3 {
		t.Fatalf("got %d fonts, want 3: %+v", len(fonts), fonts)
	}
	if fonts[0].Family != "Inter" || fonts[0].LineHeight != 24 {
		t.Errorf("first font = %+v, want Inter with line height 24", fonts[0])
	}
	if fonts[2].Family != "Lora" || fonts[2].Size != 32 {
		t.Errorf("last font = %+v, want Lora 32", fonts[2])
	}
}

func TestCollectImageNodesRecursesIntoHiddenContainers(t *testing.T) {
	hiddenGroup := &FigmaNode{
		ID:      "1:9",
		Type:    "GROUP",
		Visible: boolPtr(false),
		Children: []*FigmaNode{
			{ID: "2:1", Type: "RECTANGLE", Fills: []FigmaPaint{{Type: "IMAGE"}}},
		},
	}
	root := &FigmaNode{
		ID:   "0:1",
		Type: "CANVAS",
		Children: []*FigmaNode{
			{ID: "1:1", Type: "FRAME", Fills: []FigmaPaint{{Type: "IMAGE"}}},
			{ID: "1:2", Type: "FRAME", Fills: []FigmaPaint{{Type: "SOLID", Color: &FigmaColor{A: 1}}}},
			hiddenGroup,
		},
	}

	ids := collectImageNodes(root)

	if !reflect.DeepEqual(ids, []string{"1:1", "2:1"}) {
		t.Errorf("image node ids = %v, want [1:1 2:1]", ids)
	}
}

func TestColorToHex(t *testing.T) {
	tests := []struct {
		name     string
		color    FigmaColor
		expected string
	}{
		{"black", FigmaColor{0, 0, 0, 1}, "#000000"},
		{"white", FigmaColor{1, 1, 1, 1}, "#FFFFFF"},
		{"rounding", FigmaColor{R: 0.501, G: 0.2, B: 0.8, A: 1}, "#8033CC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colorToHex(tt.color); got != tt.expected {
				t.Errorf("colorToHex() = %s, want %s", got, tt.expected)
			}
		})
	}
}
