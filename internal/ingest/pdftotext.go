// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-digest/internal/container"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// DefaultPdftotextImage is the image used when none is configured.
const DefaultPdftotextImage = "pdftotext:latest"

// ContainerExtractor extracts text by piping the PDF through a pdftotext
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time.
type ContainerExtractor struct {
	runtime container.Runtime
	image   string
}

// NewContainerExtractor creates an extractor that runs image with rt. It
// verifies that the image exists locally before returning.
func NewContainerExtractor(rt container.Runtime, image string) (*ContainerExtractor, error) {
	if image == "" {
		image = DefaultPdftotextImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerExtractor{runtime: rt, image: image}, nil
}

// Extract streams the document into the container and splits the output on
// form feeds, which pdftotext emits after every page. Cancelling ctx stops
// the container.
func (c *ContainerExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) ([]types.Page, error) {
	var out bytes.Buffer
	in := io.NewSectionReader(r, 0, size)
	if err := c.runtime.Run(ctx, c.image, []string{"-layout", "-", "-"}, in, &out); err != nil {
		return nil, fmt.Errorf("running pdftotext: %w", err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: pdftotext produced empty output", ErrNotPDF)
	}
	return splitFormFeeds(out.String()), nil
}

// splitFormFeeds turns pdftotext output into pages. The trailing form feed
// after the last page does not start a new page.
func splitFormFeeds(s string) []types.Page {
	s = strings.TrimSuffix(s, "\f")
	chunks := strings.Split(s, "\f")
	pages := make([]types.Page, len(chunks))
	for i, chunk := range chunks {
		pages[i] = newPage(i+1, chunk)
	}
	return pages
}
