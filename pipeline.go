package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

// PageBuilder holds the collaborators shared by all pipeline stages. It keeps
// no per-build state: every stage is a function of its inputs and is safe to
// re-invoke.
type PageBuilder struct {
	llm      Invoker
	figma    *FigmaClient
	wp       *WordPressClient
	store    *Store
	settings *Settings
	profile  *SiteProfile
}

// NewPageBuilder creates a builder with clients configured from the site profile
func NewPageBuilder(apiKey string, profile *SiteProfile, settings *Settings, store *Store) (*PageBuilder, error) {
	llm, err := NewLLMClient(apiKey, settings, store)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}

	return &PageBuilder{
		llm:      llm,
		figma:    NewFigmaClient(profile.FigmaToken),
		wp:       NewWordPressClient(profile.WordPress.RESTURL, profile.WordPress.Username, profile.WordPress.AppPassword),
		store:    store,
		settings: settings,
		profile:  profile,
	}, nil
}

// RunBuild executes the whole pipeline for one build, persisting each phase
// result before the next phase starts. Deployment and image migration are
// independent of each other; a deploy failure does not stop image migration.
func (pb *PageBuilder) RunBuild(build *Build) error {
	if err := pb.store.CreateBuild(build); err != nil {
		return fmt.Errorf("creating build record: %w", err)
	}
	log.Printf("Build %s: %s (%s)", build.ID, build.FileKey, build.Dialect)

	if err := pb.store.UpdateStatus(build.ID, BuildRunning); err != nil {
		return fmt.Errorf("updating build status: %w", err)
	}

	log.Printf("→ Analyzing design...")
	pb.setPhase(build.ID, 0)
	analysis, err := pb.AnalyzeDesign(build.ID, build.FileKey, build.NodeIDs)
	if err != nil {
		return pb.failBuild(build.ID, "analysis", err)
	}
	pb.savePhase(build.ID, PhaseAnalysis, analysis)
	log.Printf("✓ Analysis complete: %s", firstLine(analysis.Summary))

	log.Printf("→ Classifying %d sections...", len(analysis.Sections))
	pb.setPhase(build.ID, 1)
	classification, err := pb.ClassifySections(build.ID, analysis.Sections)
	if err != nil {
		return pb.failBuild(build.ID, "classification", err)
	}
	pb.savePhase(build.ID, PhaseClassification, classification)
	log.Printf("✓ Classification complete (fallback=%v)", classification.Fallback)

	log.Printf("→ Generating %s markup...", build.Dialect)
	pb.setPhase(build.ID, 2)
	markup, err := pb.GenerateMarkup(build.ID, build.Dialect, analysis.Sections,
		classification.Classes, analysis.Colors, analysis.Fonts, pb.loadStylesheet())
	if err != nil {
		return pb.failBuild(build.ID, "generation", err)
	}
	pb.savePhase(build.ID, PhaseGeneration, markup)
	log.Printf("✓ Generated %d characters of markup", len(markup.Markup))

	log.Printf("→ Validating markup...")
	pb.setPhase(build.ID, 3)
	validation := ValidateMarkup(build.ID, markup.Markup, build.Dialect)
	pb.savePhase(build.ID, PhaseValidation, validation)
	for _, warning := range validation.Warnings {
		log.Printf("  ! %s", warning)
	}
	if !validation.Valid {
		for _, msg := range validation.Errors {
			if err := pb.store.AppendError(build.ID, msg); err != nil {
				log.Printf("Warning: recording validation error: %v", err)
			}
		}
		return pb.failBuild(build.ID, "validation",
			fmt.Errorf("markup validation failed: %s", strings.Join(validation.Errors, "; ")))
	}
	log.Printf("✓ Markup valid")

	log.Printf("→ Deploying page...")
	pb.setPhase(build.ID, 4)
	deploy, deployErr := pb.DeployPage(build, markup.Markup)
	if deployErr != nil {
		log.Printf("✗ Deploy failed: %v", deployErr)
		if err := pb.store.AppendError(build.ID, deployErr.Error()); err != nil {
			log.Printf("Warning: recording deploy error: %v", err)
		}
	} else {
		pb.savePhase(build.ID, PhaseDeployment, deploy)
		if err := pb.store.SetPage(build.ID, deploy.PageID, deploy.DraftURL, deploy.PreviewURL); err != nil {
			log.Printf("Warning: recording page identity: %v", err)
		}
		log.Printf("✓ Deployed: %s", deploy.DraftURL)
	}

	log.Printf("→ Migrating %d images...", len(analysis.ImageNodeIDs))
	pb.setPhase(build.ID, 5)
	images, imagesErr := pb.MigrateImages(build.ID, build.FileKey, analysis.ImageNodeIDs)
	if imagesErr != nil {
		log.Printf("✗ Image migration failed: %v", imagesErr)
		if err := pb.store.AppendError(build.ID, imagesErr.Error()); err != nil {
			log.Printf("Warning: recording image error: %v", err)
		}
	} else {
		pb.savePhase(build.ID, PhaseImages, images)
	}

	if deployErr != nil {
		return pb.failBuild(build.ID, "deployment", deployErr)
	}
	if imagesErr != nil {
		return pb.failBuild(build.ID, "images", imagesErr)
	}

	if err := pb.store.UpdateStatus(build.ID, BuildCompleted); err != nil {
		return fmt.Errorf("updating build status: %w", err)
	}
	pb.logCosts(build.ID)
	return nil
}

// loadStylesheet reads the optional global stylesheet configured on the site
// profile. A missing or unreadable file is a warning, not a failure.
func (pb *PageBuilder) loadStylesheet() string {
	if pb.profile.StylesheetPath == "" {
		return ""
	}
	data, err := os.ReadFile(pb.profile.StylesheetPath)
	if err != nil {
		log.Printf("Warning: reading stylesheet %s: %v", pb.profile.StylesheetPath, err)
		return ""
	}
	return string(data)
}

func (pb *PageBuilder) setPhase(buildID string, phase int) {
	if err := pb.store.SetPhase(buildID, phase); err != nil {
		log.Printf("Warning: recording phase for build %s: %v", buildID, err)
	}
}

func (pb *PageBuilder) savePhase(buildID, phase string, result any) {
	if err := pb.store.SavePhaseResult(buildID, phase, result); err != nil {
		log.Printf("Warning: saving %s result for build %s: %v", phase, buildID, err)
	}
}

func (pb *PageBuilder) failBuild(buildID, phase string, cause error) error {
	log.Printf("✗ Build failed in %s: %v", phase, cause)
	if err := pb.store.AppendError(buildID, fmt.Sprintf("%s: %v", phase, cause)); err != nil {
		log.Printf("Warning: recording error for build %s: %v", buildID, err)
	}
	if err := pb.store.UpdateStatus(buildID, BuildFailed); err != nil {
		log.Printf("Warning: updating status for build %s: %v", buildID, err)
	}
	return fmt.Errorf("%s: %w", phase, cause)
}

func (pb *PageBuilder) logCosts(buildID string) {
	build, err := pb.store.GetBuild(buildID)
	if err != nil {
		return
	}
	var total float64
	for _, cost := range build.PhaseCosts {
		total += cost
	}
	log.Printf("✓ Build %s completed ($%.4f AI cost)", buildID, total)
}

// slugFromTitle creates a URL slug from a page title
func slugFromTitle(title string) string {
	slug := strings.ToLower(title)
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > 50 {
		slug = strings.Trim(slug[:50], "-")
	}
	if slug == "" {
		return "page"
	}
	return slug
}

// firstLine returns the first line of a possibly multi-line string
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
