// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstractive

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// systemPrompt frames the model as a scientific writer working only from the
// supplied evidence.
const systemPrompt = "You are an expert scientific writer. Write a coherent, concise 1-page summary of the paper " +
	"using the provided EVIDENCE sentences. Preserve factuality, avoid hallucinations, and reference page numbers inline " +
	"like (p. 3) where relevant. Prioritize core ideas, contributions, methods, datasets, and key mathematical notions. " +
	"Use short paragraphs with logical flow."

var userPromptTmpl = template.Must(template.New("user").Parse(`EVIDENCE (with page numbers):

{{.Evidence}}

Task: Write a coherent summary (~1 page, <= {{.TokenLimit}} tokens). Keep references like (p. N) where you used specific sentences.`))

// FormatEvidence renders summary items as numbered evidence lines of the
// form "[i] (p. N) text". Items with blank text are skipped without
// consuming a number. A zero page is rendered as "?".
func FormatEvidence(items []types.SummaryItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		page := "?"
		if it.Page > 0 {
			page = fmt.Sprint(it.Page)
		}
		lines = append(lines, fmt.Sprintf("[%d] (p. %s) %s", len(lines)+1, page, text))
	}
	return strings.Join(lines, "\n")
}

func renderUserPrompt(evidence string, tokenLimit int) (string, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct {
		Evidence   string
		TokenLimit int
	}{Evidence: evidence, TokenLimit: tokenLimit})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
