package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nexdoor/nexdoor/internal/genai"
	"github.com/nexdoor/nexdoor/internal/observability"
)

// Synthesizer turns a free-text question into a single candidate SQL
// statement via the generative backend.
type Synthesizer struct {
	service genai.Service
	schema  SchemaDescription
}

func NewSynthesizer(service genai.Service, schema SchemaDescription) *Synthesizer {
	return &Synthesizer{service: service, schema: schema}
}

// Synthesize builds the constrained prompt, calls the backend, and
// normalizes its reply into a candidate query. A failed call or an
// empty reply is reported as an error; the candidate itself is not
// validated here, that is the gatekeeper's job.
func (s *Synthesizer) Synthesize(ctx context.Context, question string) (string, error) {
	prompt := s.buildPrompt(question)

	started := time.Now()
	reply, err := s.service.Generate(ctx, prompt)
	observability.ObserveGenerateLatency(time.Since(started))
	if err != nil {
		return "", fmt.Errorf("generate query: %w", err)
	}

	candidate := ExtractCandidate(reply)
	if candidate == "" {
		return "", fmt.Errorf("generate query: %w", genai.ErrMalformedReply)
	}
	return candidate, nil
}

func (s *Synthesizer) buildPrompt(question string) string {
	var b strings.Builder
	b.WriteString("You translate questions into a single PostgreSQL SELECT statement.\n")
	b.WriteString("The database has exactly these tables and columns:\n")
	b.WriteString(s.schema.PromptText())
	b.WriteString("Rules:\n")
	b.WriteString("- Use only the tables and columns listed above. Never invent fields.\n")
	b.WriteString("- Return only the raw SQL text. No prose, no explanations, no code fences.\n")
	b.WriteString("- Produce exactly one statement.\n\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

// ExtractCandidate normalizes a raw backend reply into a candidate
// query. Rules, applied in order: strip Markdown code-fence markers,
// trim surrounding whitespace, and truncate at the first statement
// terminator (keeping it) when one is present. The backend is not
// trusted to emit exactly one statement.
func ExtractCandidate(reply string) string {
	text := stripCodeFences(reply)
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, ";"); idx >= 0 {
		text = text[:idx+1]
	}
	return strings.TrimSpace(text)
}

func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.Contains(trimmed, "```") {
		return trimmed
	}
	// Keep only the contents of the first fenced block when one opens
	// the reply; otherwise just drop the markers.
	if strings.HasPrefix(trimmed, "```") {
		rest := strings.TrimPrefix(trimmed, "```")
		if newline := strings.Index(rest, "\n"); newline >= 0 {
			if isFenceLanguage(strings.TrimSpace(rest[:newline])) {
				rest = rest[newline+1:]
			}
		}
		if closing := strings.Index(rest, "```"); closing >= 0 {
			rest = rest[:closing]
		}
		return rest
	}
	return strings.ReplaceAll(trimmed, "```", "")
}

func isFenceLanguage(tag string) bool {
	switch strings.ToLower(tag) {
	case "", "sql", "postgres", "postgresql":
		return true
	}
	return false
}
