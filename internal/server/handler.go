// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/internal/ingest"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// digestIDHeader carries the archive ID of a stored digest.
const digestIDHeader = "X-Digest-ID"

// Summarizer builds digests from pages.
type Summarizer interface {
	Summarize(ctx context.Context, pages []types.Page, req digest.Request) (types.Digest, error)
}

// Archiver stores finished digests.
type Archiver interface {
	Save(ctx context.Context, source string, d types.Digest) (string, error)
}

// Handler serves the summarization API.
type Handler struct {
	svc       Summarizer
	extractor ingest.Extractor
	archive   Archiver
	cfg       types.Config
	logger    *slog.Logger
}

// NewHandler wires the handler. archive may be nil, in which case archiving
// requests are ignored.
func NewHandler(cfg types.Config, svc Summarizer, extractor ingest.Extractor, archive Archiver, logger *slog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		extractor: extractor,
		archive:   archive,
		cfg:       cfg,
		logger:    logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type summarizeQuery struct {
	maxWords   int
	llm        bool
	model      string
	tokenLimit int
	archive    bool
}

func (h *Handler) parseSummarizeQuery(c *gin.Context) (summarizeQuery, *HTTPError) {
	q := summarizeQuery{
		maxWords:   h.cfg.Summarize.MaxWords,
		model:      c.Query("model"),
		tokenLimit: h.cfg.Abstractive.TokenLimit,
		archive:    h.cfg.Server.Archive,
	}

	ints := []struct {
		name string
		dst  *int
	}{{"max_words", &q.maxWords}, {"token_limit", &q.tokenLimit}}
	for _, p := range ints {
		raw, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, NewHTTPError(http.StatusBadRequest, "invalid_request",
				fmt.Sprintf("%s must be a non-negative integer", p.name), err)
		}
		*p.dst = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{{"llm", &q.llm}, {"archive", &q.archive}}
	for _, p := range bools {
		raw, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, NewHTTPError(http.StatusBadRequest, "invalid_request",
				fmt.Sprintf("%s must be a boolean", p.name), err)
		}
		*p.dst = b
	}
	return q, nil
}

// Summarize extracts an uploaded PDF and returns its digest.
func (h *Handler) Summarize(c *gin.Context) {
	q, httpErr := h.parseSummarizeQuery(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "multipart field \"file\" is required", err))
		return
	}
	if limit := h.cfg.Server.MaxUploadBytes; limit > 0 && fh.Size > limit {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "document_too_large",
			fmt.Sprintf("document exceeds %d bytes", limit), nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_document", "could not read upload", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_document", "could not read upload", err))
		return
	}

	ctx := c.Request.Context()
	pages, err := h.extractor.Extract(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if isContextErr(err) {
			abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, "extract_cancelled", err.Error(), err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_document", "document could not be parsed as PDF", err))
		return
	}
	pages = ingest.Truncate(pages, h.cfg.Ingest.MaxPages, h.cfg.Ingest.MaxPageChars)

	d, err := h.svc.Summarize(ctx, pages, digest.Request{
		MaxWords:    q.maxWords,
		Abstractive: q.llm,
		Model:       q.model,
		TokenLimit:  q.tokenLimit,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if isContextErr(err) {
			status = http.StatusServiceUnavailable
		}
		abortWithError(c, NewHTTPError(status, "summarize_failed", err.Error(), err))
		return
	}
	if d.LLMError != "" {
		h.logger.Warn("abstractive summary failed", "file", fh.Filename, "error", d.LLMError)
	}

	if q.archive && h.archive != nil {
		id, err := h.archive.Save(ctx, fh.Filename, d)
		if err != nil {
			h.logger.Error("archiving digest failed", "file", fh.Filename, "error", err)
		} else {
			c.Header(digestIDHeader, id)
		}
	}

	h.logger.Info("document summarized",
		"file", fh.Filename,
		"pages", d.Stats.NumPages,
		"sentences", d.Stats.NumSentences,
		"max_words", d.Stats.MaxWords)
	c.JSON(http.StatusOK, d)
}

type alignRequest struct {
	Summary []types.SummaryItem `json:"summary"`
	Text    string              `json:"text"`
	Pages   []types.Page        `json:"pages"`
}

// Align attaches page numbers to summary sentences. A plain text summary
// is split into sentences first.
func (h *Handler) Align(c *gin.Context) {
	var req alignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	items := req.Summary
	if len(items) == 0 && req.Text != "" {
		items = digest.SentenceItems(digest.SplitSentences(req.Text))
	}

	aligned := digest.Align(items, req.Pages)
	if aligned == nil {
		aligned = []types.SummaryItem{}
	}
	c.JSON(http.StatusOK, gin.H{"summary": aligned})
}

type splitRequest struct {
	Text string `json:"text"`
}

// Split returns the sentences of a text.
func (h *Handler) Split(c *gin.Context) {
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	sentences := digest.SplitSentences(req.Text)
	if sentences == nil {
		sentences = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"sentences": sentences})
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
