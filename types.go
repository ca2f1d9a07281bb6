package main

import (
	"encoding/json"
	"time"
)

// BuildStatus represents the lifecycle state of a page build
type BuildStatus string

const (
	BuildPending   BuildStatus = "pending"
	BuildRunning   BuildStatus = "running"
	BuildCompleted BuildStatus = "completed"
	BuildFailed    BuildStatus = "failed"
)

// Dialect identifies the target markup format for generated pages
type Dialect string

const (
	DialectGutenberg Dialect = "gutenberg"
	DialectElementor Dialect = "elementor"
	DialectShortcode Dialect = "shortcode"
)

// Phase names used as keys for phase results and cost attribution
const (
	PhaseAnalysis       = "analysis"
	PhaseClassification = "classification"
	PhaseGeneration     = "generation"
	PhaseValidation     = "validation"
	PhaseDeployment     = "deployment"
	PhaseImages         = "images"
)

// BuildPhases lists the pipeline phases in execution order
var BuildPhases = []string{
	PhaseAnalysis,
	PhaseClassification,
	PhaseGeneration,
	PhaseValidation,
	PhaseDeployment,
	PhaseImages,
}

// Build is the unit of work: one page-generation run. It is owned by the
// orchestrator and persisted between phases; pipeline stages receive only the
// fields they need and return phase results without touching the record.
type Build struct {
	ID           string                     `json:"id"`
	SiteID       string                     `json:"site_id"`
	FileKey      string                     `json:"file_key"`
	NodeIDs      []string                   `json:"node_ids,omitempty"`
	Dialect      Dialect                    `json:"dialect"`
	PageTitle    string                     `json:"page_title"`
	PageSlug     string                     `json:"page_slug"`
	Status       BuildStatus                `json:"status"`
	Phase        int                        `json:"phase"`
	PhaseResults map[string]json.RawMessage `json:"phase_results,omitempty"`
	Artifacts    map[string]string          `json:"artifacts,omitempty"`
	ErrorLog     []string                   `json:"error_log,omitempty"`
	PhaseCosts   map[string]float64         `json:"phase_costs,omitempty"`

	// Destination page fields, populated after deployment. A nil PageID means
	// the page has not been created yet and deployment must issue a create.
	PageID     *int    `json:"page_id,omitempty"`
	DraftURL   *string `json:"draft_url,omitempty"`
	PreviewURL *string `json:"preview_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteProfile carries the per-site credentials and destination configuration
type SiteProfile struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	SiteURL    string `yaml:"site_url"`
	FigmaToken string `yaml:"figma_token"`
	WordPress  struct {
		RESTURL     string `yaml:"rest_url"`
		Username    string `yaml:"username"`
		AppPassword string `yaml:"app_password"`
	} `yaml:"wordpress"`
	StylesheetPath string `yaml:"stylesheet_path"`
}

// BoundingBox is a rectangular region in the source design, in absolute coordinates
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Section is a layout region extracted from the design document tree.
// Node links back to the originating document node and is not serialized
// with phase results.
type Section struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Bounds   BoundingBox `json:"bounds"`
	Node     *FigmaNode  `json:"-"`
	Children []Section   `json:"children,omitempty"`
}

// ColorToken is a deduplicated solid color used in the design
type ColorToken struct {
	Hex string  `json:"hex"`
	R   float64 `json:"r"`
	G   float64 `json:"g"`
	B   float64 `json:"b"`
	A   float64 `json:"a"`
}

// FontToken is a deduplicated typography style used in the design
type FontToken struct {
	Family     string  `json:"family"`
	Weight     float64 `json:"weight"`
	Size       float64 `json:"size"`
	LineHeight float64 `json:"line_height,omitempty"`
}

// AnalysisResult is the Design Analyzer phase output
type AnalysisResult struct {
	Sections     []Section    `json:"sections"`
	Colors       []ColorToken `json:"colors"`
	Fonts        []FontToken  `json:"fonts"`
	Summary      string       `json:"summary"`
	ImageNodeIDs []string     `json:"image_node_ids,omitempty"`
}

// SectionClass is the semantic classification of one section
type SectionClass struct {
	SectionID   string `json:"sectionId"`
	SectionName string `json:"sectionName"`
	Type        string `json:"type"`
	Tier        int    `json:"tier"`
	Description string `json:"description"`
}

// ClassificationResult is the Section Classifier phase output. Fallback is
// true when the model response could not be parsed and every section received
// the default classification.
type ClassificationResult struct {
	Classes  []SectionClass `json:"classes"`
	Fallback bool           `json:"fallback,omitempty"`
}

// MarkupResult is the Markup Generator phase output. Fallback is true when
// the model response was not parseable JSON and the raw text was taken as
// the markup body.
type MarkupResult struct {
	Dialect  Dialect  `json:"dialect"`
	Markup   string   `json:"markup"`
	Sections []string `json:"sections,omitempty"`
	Fallback bool     `json:"fallback,omitempty"`
}

// ValidationResult reports structural findings for a markup string.
// Errors block deployment, warnings are advisory.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// DeployResult is the Page Deployer phase output
type DeployResult struct {
	PageID     int    `json:"page_id"`
	DraftURL   string `json:"draft_url"`
	PreviewURL string `json:"preview_url"`
}

// ImageResult is the Image Asset Pipeline phase output. MediaIDs holds
// destination identifiers for successful uploads in completion order.
type ImageResult struct {
	Uploaded int      `json:"uploaded"`
	Failed   int      `json:"failed"`
	MediaIDs []int    `json:"media_ids,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}
