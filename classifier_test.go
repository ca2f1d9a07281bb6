package main

import (
	"strings"
	"testing"
)

func testSections() []Section {
	return []Section{
		{ID: "1:1", Name: "Header", Bounds: BoundingBox{Y: 0, Width: 1440, Height: 120}},
		{ID: "1:2", Name: "Features", Bounds: BoundingBox{Y: 800, Width: 1440, Height: 600}},
	}
}

func TestClassifySectionsParsed(t *testing.T) {
	llm := &stubInvoker{responses: map[string]string{
		"classifier": `Here is the classification you asked for:
[
  {"sectionId": "1:1", "sectionName": "Header", "type": "hero", "tier": 1, "description": "Top banner"},
  {"sectionId": "1:2", "sectionName": "Features", "type": "features", "tier": 4, "description": "Feature grid"}
]
Let me know if you need anything else.`,
	}}
	pb := &PageBuilder{llm: llm}

	result, err := pb.ClassifySections("b1", testSections())
	if err != nil {
		t.Fatalf("ClassifySections() error = %v", err)
	}
	if result.Fallback {
		t.Error("Fallback = true for a parseable response")
	}
	if len(result.Classes) != 2 {
		t.Fatalf("got %d classes, want 2", len(result.Classes))
	}
	if result.Classes[0].Type != "hero" || result.Classes[0].Tier != 1 {
		t.Errorf("first class = %+v, want hero tier 1", result.Classes[0])
	}
	if result.Classes[1].Type != "features" || result.Classes[1].Tier != 4 {
		t.Errorf("second class = %+v, want features tier 4", result.Classes[1])
	}
}

func TestClassifySectionsFallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose only", "I could not classify these sections, sorry."},
		{"broken json", `[{"sectionId": "1:1", "type": }]`},
		{"object not array", `{"sectionId": "1:1", "type": "hero"}`},
		{"unterminated array", `[{"sectionId": "1:1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubInvoker{responses: map[string]string{"classifier": tt.response}}
			pb := &PageBuilder{llm: llm}
			sections := testSections()

			result, err := pb.ClassifySections("b1", sections)
			if err != nil {
				t.Fatalf("ClassifySections() error = %v", err)
			}
			if !result.Fallback {
				t.Error("Fallback = false for an unparseable response")
			}
			if len(result.Classes) != len(sections) {
				t.Fatalf("got %d classes, want %d", len(result.Classes), len(sections))
			}
			for i, class := range result.Classes {
				if class.SectionID != sections[i].ID || class.SectionName != sections[i].Name {
					t.Errorf("class %d identity = %s/%s, want %s/%s",
						i, class.SectionID, class.SectionName, sections[i].ID, sections[i].Name)
				}
				if class.Type != "content" || class.Tier != 2 {
					t.Errorf("class %d = %s tier %d, want content tier 2", i, class.Type, class.Tier)
				}
			}
		})
	}
}

func TestClassifySectionsMissingAndInvalidEntries(t *testing.T) {
	llm := &stubInvoker{responses: map[string]string{
		"classifier": `[{"sectionId": "1:2", "sectionName": "Features", "type": "features", "tier": 9, "description": "grid"}]`,
	}}
	pb := &PageBuilder{llm: llm}

	result, err := pb.ClassifySections("b1", testSections())
	if err != nil {
		t.Fatalf("ClassifySections() error = %v", err)
	}
	if len(result.Classes) != 2 {
		t.Fatalf("got %d classes, want 2", len(result.Classes))
	}
	// Section the model skipped gets its own default
	if result.Classes[0].SectionID != "1:1" || result.Classes[0].Type != "content" {
		t.Errorf("skipped section class = %+v, want default for 1:1", result.Classes[0])
	}
	// Out-of-range tier clamps to the default
	if result.Classes[1].Tier != 2 {
		t.Errorf("tier = %d, want 2 for out-of-range tier", result.Classes[1].Tier)
	}
	if result.Classes[1].Type != "features" {
		t.Errorf("type = %s, want features", result.Classes[1].Type)
	}
}

func TestClassifySectionsEmptyInput(t *testing.T) {
	llm := &stubInvoker{}
	pb := &PageBuilder{llm: llm}

	result, err := pb.ClassifySections("b1", nil)
	if err != nil {
		t.Fatalf("ClassifySections() error = %v", err)
	}
	if len(result.Classes) != 0 {
		t.Errorf("got %d classes, want 0", len(result.Classes))
	}
	if len(llm.calls) != 0 {
		t.Error("model invoked for an empty section list")
	}
}

func TestBuildClassificationMessage(t *testing.T) {
	message := buildClassificationMessage(testSections())

	for _, want := range []string{`id="1:1"`, `name="Header"`, "y=800", "2 sections"} {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q:\n%s", want, message)
		}
	}
}

func TestExtractBalancedArray(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"bare array", `[1, 2, 3]`, `[1, 2, 3]`},
		{"prose wrapped", `Sure! [1, 2] done`, `[1, 2]`},
		{"nested arrays", `[[1], [2]] trailing`, `[[1], [2]]`},
		{"bracket inside string", `[{"name": "a ] b"}]`, `[{"name": "a ] b"}]`},
		{"escaped quote in string", `[{"name": "a \" ] b"}]`, `[{"name": "a \" ] b"}]`},
		{"no array", `no brackets here`, ""},
		{"unterminated", `[1, 2`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBalancedArray(tt.text); got != tt.expected {
				t.Errorf("extractBalancedArray() = %q, want %q", got, tt.expected)
			}
		})
	}
}
