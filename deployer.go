package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// ErrCredentialsNotConfigured reports a deploy attempted without a complete
// destination username/app-password pair
var ErrCredentialsNotConfigured = errors.New("WordPress credentials not configured")

const maxExcerptLength = 240

// DeployPage creates or updates the draft page on the destination system and
// derives the draft and preview URLs. A build that already carries a page
// identifier is updated; otherwise a new draft is created. The credential
// check happens before any network call.
func (pb *PageBuilder) DeployPage(build *Build, markup string) (*DeployResult, error) {
	if pb.profile.WordPress.Username == "" || pb.profile.WordPress.AppPassword == "" {
		return nil, ErrCredentialsNotConfigured
	}

	params := PageParams{
		Title:   build.PageTitle,
		Content: markup,
		Slug:    build.PageSlug,
	}

	var page *PageRecord
	var err error
	if build.PageID != nil {
		log.Printf("  → Updating page %d", *build.PageID)
		page, err = pb.wp.UpdatePage(*build.PageID, params)
	} else {
		log.Printf("  → Creating draft page %q", build.PageTitle)
		params.Status = "draft"
		params.Excerpt = deriveExcerpt(markup, build.Dialect)
		page, err = pb.wp.CreatePage(params)
	}
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(pb.profile.SiteURL, "/")
	result := &DeployResult{
		PageID:   page.ID,
		DraftURL: fmt.Sprintf("%s/?page_id=%d&preview=true", base, page.ID),
	}
	if page.Link != "" {
		result.PreviewURL = page.Link
	} else {
		result.PreviewURL = fmt.Sprintf("%s/%s/", base, build.PageSlug)
	}

	return result, nil
}

// deriveExcerpt distills a short plain-text excerpt from the page markup.
// Elementor markup is a JSON document, not HTML, so it gets no excerpt.
// Derivation is best-effort; failures yield an empty excerpt, never an error.
func deriveExcerpt(markup string, dialect Dialect) string {
	if dialect == DialectElementor {
		return ""
	}

	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(markup)
	if err != nil {
		return ""
	}

	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxExcerptLength {
		return text
	}
	cut := strings.LastIndex(text[:maxExcerptLength], " ")
	if cut <= 0 {
		cut = maxExcerptLength
	}
	return text[:cut] + "…"
}
