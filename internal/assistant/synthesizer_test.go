package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nexdoor/nexdoor/internal/genai"
)

func TestExtractCandidate(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "fenced block with trailing prose",
			reply: "```sql\nSELECT a FROM t;\n```\nThis query lists every row.",
			want:  "SELECT a FROM t;",
		},
		{
			name:  "bare fence without language tag",
			reply: "```\nSELECT a FROM t;\n```",
			want:  "SELECT a FROM t;",
		},
		{
			name:  "plain statement with whitespace",
			reply: "  SELECT a FROM t;  ",
			want:  "SELECT a FROM t;",
		},
		{
			name:  "multiple statements truncate at first terminator",
			reply: "SELECT a FROM t; DROP TABLE t;",
			want:  "SELECT a FROM t;",
		},
		{
			name:  "no terminator keeps full text",
			reply: "SELECT a FROM t",
			want:  "SELECT a FROM t",
		},
		{
			name:  "conversational reply passes through for the gate to refuse",
			reply: "Hi there!",
			want:  "Hi there!",
		},
		{
			name:  "empty reply",
			reply: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCandidate(tt.reply); got != tt.want {
				t.Fatalf("ExtractCandidate(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}

func TestSynthesizePromptListsSchema(t *testing.T) {
	var captured string
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return "SELECT id FROM users;", nil
	})

	synth := NewSynthesizer(service, DefaultSchema())
	candidate, err := synth.Synthesize(context.Background(), "list user ids")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if candidate != "SELECT id FROM users;" {
		t.Fatalf("candidate = %q", candidate)
	}

	for _, fragment := range []string{
		"- users: id, uid, email",
		"- marketplace_items: id, seller_id, title",
		"Never invent fields.",
		"Question: list user ids",
	} {
		if !strings.Contains(captured, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, captured)
		}
	}
}

func TestSynthesizeReportsServiceFailure(t *testing.T) {
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("connection refused")
	})

	synth := NewSynthesizer(service, DefaultSchema())
	if _, err := synth.Synthesize(context.Background(), "list user ids"); err == nil {
		t.Fatal("expected error for failed generate call")
	}
}

func TestSynthesizeReportsEmptyReplyAsMalformed(t *testing.T) {
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		return "```\n```", nil
	})

	synth := NewSynthesizer(service, DefaultSchema())
	_, err := synth.Synthesize(context.Background(), "list user ids")
	if !errors.Is(err, genai.ErrMalformedReply) {
		t.Fatalf("error = %v, want %v", err, genai.ErrMalformedReply)
	}
}
