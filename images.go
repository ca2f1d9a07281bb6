package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// mimeTypes maps render formats to upload content types
var mimeTypes = map[string]string{
	"png": "image/png",
	"jpg": "image/jpeg",
	"svg": "image/svg+xml",
}

// MigrateImages resolves rendered URLs for the image-bearing nodes in one
// batch call, then downloads and re-uploads each image into the destination
// media library with bounded parallelism. A single image's failure is counted
// and logged but never aborts the remaining images; uploaded+failed always
// equals the number of requested nodes.
func (pb *PageBuilder) MigrateImages(buildID, fileKey string, nodeIDs []string) (*ImageResult, error) {
	if len(nodeIDs) == 0 {
		return &ImageResult{}, nil
	}

	urls, err := pb.figma.GetImageRenderURLs(fileKey, nodeIDs, RenderOptions{
		Format: pb.settings.Images.Format,
		Scale:  pb.settings.Images.Scale,
	})
	if err != nil {
		return nil, err
	}

	result := &ImageResult{}
	var mu sync.Mutex
	fail := func(nodeID string, reason error) {
		mu.Lock()
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", nodeID, reason))
		mu.Unlock()
		log.Printf("  ✗ Image %s: %v", nodeID, reason)
	}

	var group errgroup.Group
	group.SetLimit(pb.settings.Images.Concurrency)

	for _, nodeID := range nodeIDs {
		group.Go(func() error {
			imageURL := urls[nodeID]
			if imageURL == "" {
				fail(nodeID, fmt.Errorf("no rendered URL"))
				return nil
			}

			data, err := pb.figma.DownloadImageBytes(imageURL)
			if err != nil {
				fail(nodeID, fmt.Errorf("download: %w", err))
				return nil
			}

			filename := imageFilename(buildID, nodeID, pb.settings.Images.Format)
			media, err := pb.wp.UploadMedia(data, filename, mimeTypes[pb.settings.Images.Format])
			if err != nil {
				fail(nodeID, fmt.Errorf("upload: %w", err))
				return nil
			}

			mu.Lock()
			result.Uploaded++
			result.MediaIDs = append(result.MediaIDs, media.ID)
			mu.Unlock()
			debugLog("uploaded image %s as media %d", nodeID, media.ID)
			return nil
		})
	}

	// Workers report failures through the counters, never as errors
	_ = group.Wait()

	log.Printf("  → Images: %d uploaded, %d failed", result.Uploaded, result.Failed)
	return result, nil
}

// imageFilename embeds the build and source node identifiers so uploads can
// be traced back to the design node that produced them
func imageFilename(buildID, nodeID, format string) string {
	safe := strings.NewReplacer(":", "-", ";", "-", "/", "-").Replace(nodeID)
	return fmt.Sprintf("pagegen-%s-%s.%s", buildID, safe, format)
}
