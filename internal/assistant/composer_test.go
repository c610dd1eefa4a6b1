package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nexdoor/nexdoor/internal/genai"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "extracts between first and last quote",
			in:   `Here is what I found: "There are two businesses in town." Hope that helps!`,
			want: "There are two businesses in town.",
		},
		{
			name: "strips known preamble once",
			in:   "Here's a human-like response: There are two businesses in town.",
			want: "There are two businesses in town.",
		},
		{
			name: "preamble match is literal prefix only",
			in:   "As requested, Here's a human-like response: text",
			want: "As requested, Here's a human-like response: text",
		},
		{
			name: "plain text passes through trimmed",
			in:   "  There are two businesses in town.  ",
			want: "There are two businesses in town.",
		},
		{
			name: "single quote mark does not trigger extraction",
			in:   `She said "hello`,
			want: `She said "hello`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.in); got != tt.want {
				t.Fatalf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestComposeFromRowsIsDeterministic(t *testing.T) {
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		return `"Nothing matched your question."`, nil
	})
	composer := NewComposer(service)

	result := ResultSet{Columns: []string{"name"}, Rows: []map[string]any{}}
	first := composer.ComposeFromRows(context.Background(), "list businesses", result)
	second := composer.ComposeFromRows(context.Background(), "list businesses", result)

	if first != second {
		t.Fatalf("answers differ: %q vs %q", first, second)
	}
	if first != "Nothing matched your question." {
		t.Fatalf("answer = %q", first)
	}
}

func TestComposeFromRowsStringifiesDataInColumnOrder(t *testing.T) {
	var captured string
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return "All good.", nil
	})
	composer := NewComposer(service)

	result := ResultSet{
		Columns: []string{"name", "category"},
		Rows: []map[string]any{
			{"category": "food", "name": "Corner Bakery"},
		},
	}
	composer.ComposeFromRows(context.Background(), "list businesses", result)

	if !strings.Contains(captured, "{name: Corner Bakery, category: food}") {
		t.Fatalf("prompt data not in column order:\n%s", captured)
	}
	if !strings.Contains(captured, "list businesses") {
		t.Fatalf("prompt missing question:\n%s", captured)
	}
}

func TestComposeDirectFallsBackWhenServiceUnreachable(t *testing.T) {
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("context deadline exceeded")
	})
	composer := NewComposer(service)

	got := composer.ComposeDirect(context.Background(), "hello")
	if got != msgStillLearning {
		t.Fatalf("answer = %q, want %q", got, msgStillLearning)
	}
}

func TestComposeDirectFallsBackOnMalformedReply(t *testing.T) {
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("%w: no choices", genai.ErrMalformedReply)
	})
	composer := NewComposer(service)

	got := composer.ComposeDirect(context.Background(), "hello")
	if got != msgUnexpectedReply {
		t.Fatalf("answer = %q, want %q", got, msgUnexpectedReply)
	}
}

func TestComposeDirectFallsBackOnEmptyAnswer(t *testing.T) {
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		return `""`, nil
	})
	composer := NewComposer(service)

	got := composer.ComposeDirect(context.Background(), "hello")
	if got != msgUnexpectedReply {
		t.Fatalf("answer = %q, want %q", got, msgUnexpectedReply)
	}
}

func TestComposeExecutionFailedMakesNoGenerativeCall(t *testing.T) {
	calls := 0
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "should not be used", nil
	})
	composer := NewComposer(service)

	got := composer.ComposeExecutionFailed(`column "bogus" does not exist`)
	want := `Oops! Something went wrong: column "bogus" does not exist. Try again!`
	if got != want {
		t.Fatalf("answer = %q, want %q", got, want)
	}
	if calls != 0 {
		t.Fatalf("generative calls = %d, want 0", calls)
	}
}
