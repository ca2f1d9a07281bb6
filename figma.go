package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const figmaAPIBase = "https://api.figma.com/v1"

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// FigmaColor is a normalized RGBA color with components in [0, 1]
type FigmaColor struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// FigmaPaint is a fill or stroke entry on a node
type FigmaPaint struct {
	Type    string      `json:"type"`
	Visible *bool       `json:"visible,omitempty"`
	Opacity *float64    `json:"opacity,omitempty"`
	Color   *FigmaColor `json:"color,omitempty"`
}

// FigmaTypeStyle carries the typography attributes of a text node
type FigmaTypeStyle struct {
	FontFamily   string  `json:"fontFamily"`
	FontWeight   float64 `json:"fontWeight"`
	FontSize     float64 `json:"fontSize"`
	LineHeightPx float64 `json:"lineHeightPx,omitempty"`
}

// FigmaNode is one node in the design document tree. Visible is a pointer
// because the API omits the field when a node is visible.
type FigmaNode struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Type                string          `json:"type"`
	Visible             *bool           `json:"visible,omitempty"`
	AbsoluteBoundingBox *BoundingBox    `json:"absoluteBoundingBox,omitempty"`
	Fills               []FigmaPaint    `json:"fills,omitempty"`
	Style               *FigmaTypeStyle `json:"style,omitempty"`
	Children            []*FigmaNode    `json:"children,omitempty"`
}

// IsVisible reports whether the node is not explicitly hidden
func (n *FigmaNode) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// FigmaFile is the response to a whole-file fetch
type FigmaFile struct {
	Name     string                     `json:"name"`
	Document *FigmaNode                 `json:"document"`
	Styles   map[string]json.RawMessage `json:"styles,omitempty"`
}

// FigmaNodeEntry wraps one node in a targeted-node fetch response
type FigmaNodeEntry struct {
	Document *FigmaNode `json:"document"`
}

// RenderOptions configures rendered-image exports
type RenderOptions struct {
	Format string
	Scale  float64
}

// FigmaClient is a REST client for the design-tool API
type FigmaClient struct {
	token  string
	base   string
	client *http.Client
}

// NewFigmaClient creates a client authenticated with a personal access token
func NewFigmaClient(token string) *FigmaClient {
	return &FigmaClient{
		token:  token,
		base:   figmaAPIBase,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// get performs an authenticated GET and decodes the JSON response into out.
// Non-2xx responses become an HTTPError so callers can inspect the status
// (rate limiting, auth failure, not-found) without string matching.
func (fc *FigmaClient) get(path string, out any) error {
	requestURL := fc.base + path
	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", requestURL, err)
	}
	req.Header.Set("X-Figma-Token", fc.token)

	resp, err := fc.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", requestURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, URL: requestURL}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", requestURL, err)
	}
	return nil
}

// GetFile fetches the whole design file
func (fc *FigmaClient) GetFile(fileKey string) (*FigmaFile, error) {
	var file FigmaFile
	if err := fc.get("/files/"+fileKey, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// GetFileNodes fetches only the named nodes from a file
func (fc *FigmaClient) GetFileNodes(fileKey string, nodeIDs []string) (map[string]FigmaNodeEntry, error) {
	var result struct {
		Nodes map[string]FigmaNodeEntry `json:"nodes"`
	}
	path := fmt.Sprintf("/files/%s/nodes?ids=%s", fileKey, url.QueryEscape(strings.Join(nodeIDs, ",")))
	if err := fc.get(path, &result); err != nil {
		return nil, err
	}
	return result.Nodes, nil
}

// GetImageRenderURLs requests rendered exports for a batch of nodes in one
// call. Nodes the renderer could not export map to an empty URL.
func (fc *FigmaClient) GetImageRenderURLs(fileKey string, nodeIDs []string, opts RenderOptions) (map[string]string, error) {
	var result struct {
		Err    string            `json:"err,omitempty"`
		Images map[string]string `json:"images"`
	}
	path := fmt.Sprintf("/images/%s?ids=%s&format=%s&scale=%g",
		fileKey, url.QueryEscape(strings.Join(nodeIDs, ",")), opts.Format, opts.Scale)
	if err := fc.get(path, &result); err != nil {
		return nil, err
	}
	if result.Err != "" {
		return nil, fmt.Errorf("image render failed: %s", result.Err)
	}
	return result.Images, nil
}

// DownloadImageBytes downloads raw image bytes from a rendered-image URL.
// Render URLs are pre-signed, so no auth header is sent.
func (fc *FigmaClient) DownloadImageBytes(imageURL string) ([]byte, error) {
	resp, err := fc.client.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: imageURL}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	return data, nil
}
