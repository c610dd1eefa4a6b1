package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/nexdoor/nexdoor/internal/genai"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestPipelineAnswersFromData(t *testing.T) {
	db, mock := newSQLMock(t)

	calls := 0
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		calls++
		switch calls {
		case 1:
			return "```sql\nSELECT * FROM businesses;\n```", nil
		default:
			if !strings.Contains(prompt, "Corner Bakery") {
				t.Fatalf("narration prompt missing row data:\n%s", prompt)
			}
			return `"We have Corner Bakery and Bike Shop in town."`, nil
		}
	})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM businesses;")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("Corner Bakery").
			AddRow("Bike Shop"))

	pipeline := NewPipeline(service, db, DefaultSchema(), time.Second, testLogger())
	answer := pipeline.Answer(context.Background(), "list businesses")

	if answer.Query == nil || *answer.Query != "SELECT * FROM businesses;" {
		t.Fatalf("Query = %v, want SELECT * FROM businesses;", answer.Query)
	}
	if answer.Answer != "We have Corner Bakery and Bike Shop in town." {
		t.Fatalf("Answer = %q", answer.Answer)
	}
	if calls != 2 {
		t.Fatalf("generative calls = %d, want 2", calls)
	}
	assertSQLMock(t, mock)
}

func TestPipelineFallsBackToDirectAnswerOnRejection(t *testing.T) {
	// No query expectations: the rejected candidate must never reach
	// the store.
	db, mock := newSQLMock(t)

	calls := 0
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "Hi there!", nil
		}
		return "Hello! How can I help you today?", nil
	})

	pipeline := NewPipeline(service, db, DefaultSchema(), time.Second, testLogger())
	answer := pipeline.Answer(context.Background(), "hello")

	if answer.Query != nil {
		t.Fatalf("Query = %q, want nil", *answer.Query)
	}
	if answer.Answer != "Hello! How can I help you today?" {
		t.Fatalf("Answer = %q", answer.Answer)
	}
	assertSQLMock(t, mock)
}

func TestPipelineReturnsStillLearningWhenServiceNeverResponds(t *testing.T) {
	db, _ := newSQLMock(t)

	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("context deadline exceeded")
	})

	pipeline := NewPipeline(service, db, DefaultSchema(), time.Second, testLogger())
	answer := pipeline.Answer(context.Background(), "list businesses")

	if answer.Query != nil {
		t.Fatalf("Query = %q, want nil", *answer.Query)
	}
	if answer.Answer != msgStillLearning {
		t.Fatalf("Answer = %q, want %q", answer.Answer, msgStillLearning)
	}
}

func TestPipelineReportsExecutionFailureWithoutSecondCall(t *testing.T) {
	db, mock := newSQLMock(t)

	calls := 0
	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "SELECT bogus_column FROM businesses;", nil
	})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT bogus_column FROM businesses;")).
		WillReturnError(errors.New(`column "bogus_column" does not exist`))

	pipeline := NewPipeline(service, db, DefaultSchema(), time.Second, testLogger())
	answer := pipeline.Answer(context.Background(), "list businesses")

	if answer.Query != nil {
		t.Fatalf("Query = %q, want nil", *answer.Query)
	}
	want := `Oops! Something went wrong: column "bogus_column" does not exist. Try again!`
	if answer.Answer != want {
		t.Fatalf("Answer = %q, want %q", answer.Answer, want)
	}
	if calls != 1 {
		t.Fatalf("generative calls = %d, want 1", calls)
	}
	assertSQLMock(t, mock)
}

func TestPipelineRecoversFromPanics(t *testing.T) {
	db, _ := newSQLMock(t)

	service := genai.Func(func(ctx context.Context, prompt string) (string, error) {
		panic("boom")
	})

	pipeline := NewPipeline(service, db, DefaultSchema(), time.Second, testLogger())
	answer := pipeline.Answer(context.Background(), "list businesses")

	if answer.Query != nil {
		t.Fatalf("Query = %q, want nil", *answer.Query)
	}
	if answer.Answer != msgGenericApology {
		t.Fatalf("Answer = %q, want %q", answer.Answer, msgGenericApology)
	}
}
