package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// PageParams are the writable fields of a destination page
type PageParams struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Status  string `json:"status,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// PageRecord is the destination system's view of a page
type PageRecord struct {
	ID     int    `json:"id"`
	Link   string `json:"link"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// MediaRecord is the destination system's view of an uploaded media item
type MediaRecord struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
}

// WordPressClient is a REST client for the destination content-management API
type WordPressClient struct {
	restURL  string
	username string
	password string
	client   *http.Client
}

// NewWordPressClient creates a client using application-password auth.
// restURL is the wp-json base, e.g. https://example.com/wp-json
func NewWordPressClient(restURL, username, appPassword string) *WordPressClient {
	return &WordPressClient{
		restURL:  strings.TrimSuffix(restURL, "/"),
		username: username,
		password: appPassword,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// CreatePage creates a new page
func (wc *WordPressClient) CreatePage(params PageParams) (*PageRecord, error) {
	return wc.sendPage(http.MethodPost, wc.restURL+"/wp/v2/pages", params)
}

// UpdatePage updates an existing page
func (wc *WordPressClient) UpdatePage(pageID int, params PageParams) (*PageRecord, error) {
	return wc.sendPage(http.MethodPost, fmt.Sprintf("%s/wp/v2/pages/%d", wc.restURL, pageID), params)
}

func (wc *WordPressClient) sendPage(method, url string, params PageParams) (*PageRecord, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding page payload: %w", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.SetBasicAuth(wc.username, wc.password)
	req.Header.Set("Content-Type", "application/json")

	var page PageRecord
	if err := wc.do(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UploadMedia uploads raw bytes into the destination media library
func (wc *WordPressClient) UploadMedia(data []byte, filename, mimeType string) (*MediaRecord, error) {
	url := wc.restURL + "/wp/v2/media"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.SetBasicAuth(wc.username, wc.password)
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	var media MediaRecord
	if err := wc.do(req, &media); err != nil {
		return nil, err
	}
	return &media, nil
}

// do executes a request and decodes the JSON response. Non-2xx responses
// become an HTTPError carrying the upstream status; no retry at this layer.
func (wc *WordPressClient) do(req *http.Request, out any) error {
	resp, err := wc.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL, err)
	}
	return nil
}
