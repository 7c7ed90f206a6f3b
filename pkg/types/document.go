// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Document is a segmented source document as stored in a page file.
type Document struct {
	// ID is derived from the source file name without its extension.
	ID string `json:"id" yaml:"id"`

	// Source is the path of the PDF the pages were extracted from.
	Source string `json:"source" yaml:"source"`

	// ExtractedAt is when the pages were extracted (UTC).
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`

	Pages []Page `json:"pages" yaml:"pages"`
}
