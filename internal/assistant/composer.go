package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexdoor/nexdoor/internal/genai"
)

// Fixed user-facing messages. The execution failure message embeds the
// store's reason; the others are returned verbatim.
const (
	msgStillLearning   = "I'm still learning and don't have an answer for that yet. Try again!"
	msgUnexpectedReply = "I got a response I couldn't make sense of. Try again!"
	msgGenericApology  = "Oops! Something went wrong. Try again!"
)

func executionFailedMessage(reason string) string {
	return fmt.Sprintf("Oops! Something went wrong: %s. Try again!", reason)
}

// Composer shapes the final answer. It narrates row data through the
// generative backend, answers conversationally when no data path
// applies, and falls back to fixed messages when the backend is of no
// help either.
type Composer struct {
	service genai.Service
}

func NewComposer(service genai.Service) *Composer {
	return &Composer{service: service}
}

// ComposeFromRows narrates an executed result set. Branch for outcomes
// that produced rows, including the empty set.
func (c *Composer) ComposeFromRows(ctx context.Context, question string, result ResultSet) string {
	reply, err := c.service.Generate(ctx, narrationPrompt(question, result))
	if err != nil {
		return fallbackFor(err)
	}
	answer := sanitize(reply)
	if answer == "" {
		return msgUnexpectedReply
	}
	return answer
}

// ComposeDirect answers the question conversationally, with no schema
// or data context. Branch for synthesis failures and gate rejections.
func (c *Composer) ComposeDirect(ctx context.Context, question string) string {
	reply, err := c.service.Generate(ctx, question)
	if err != nil {
		return fallbackFor(err)
	}
	answer := sanitize(reply)
	if answer == "" {
		return msgUnexpectedReply
	}
	return answer
}

// ComposeExecutionFailed reports a store error without a second
// generative call; one failure is enough for a request.
func (c *Composer) ComposeExecutionFailed(reason string) string {
	return executionFailedMessage(reason)
}

// fallbackFor picks between the two fixed fallback messages: a backend
// that answered with an uninterpretable structure reads differently to
// the user than one that never answered at all.
func fallbackFor(err error) string {
	if errors.Is(err, genai.ErrMalformedReply) {
		return msgUnexpectedReply
	}
	return msgStillLearning
}

// narrationPrompt stringifies the rows in column order alongside the
// question. The quoting instruction is what sanitize leans on.
func narrationPrompt(question string, result ResultSet) string {
	var b strings.Builder
	b.WriteString("Make this data human-readable for the user.\n")
	b.WriteString("Give a single, direct, conversational answer with no meta-commentary,\n")
	b.WriteString("and wrap your final answer in double quotes.\n\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\nData: ")
	b.WriteString(stringifyRows(result))
	return b.String()
}

func stringifyRows(result ResultSet) string {
	if len(result.Rows) == 0 {
		return "(no rows)"
	}
	var b strings.Builder
	b.WriteString("[")
	for i, row := range result.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("{")
		for j, column := range result.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %v", column, row[column])
		}
		b.WriteString("}")
	}
	b.WriteString("]")
	return b.String()
}
