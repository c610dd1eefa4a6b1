// Package assistant implements the natural-language data-query
// pipeline: question to constrained SQL, read-only gate, execution,
// and narrated answer, with conversational fallbacks when no data path
// applies.
package assistant

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/nexdoor/nexdoor/internal/genai"
	"github.com/nexdoor/nexdoor/internal/observability"
)

// FinalAnswer is the terminal artifact returned to the caller. Query is
// populated only when the answer was derived from executed row data, so
// callers can tell data-backed answers from conversational ones.
type FinalAnswer struct {
	Query  *string `json:"sql_query"`
	Answer string  `json:"answer"`
}

// Pipeline wires the synthesizer, gatekeeper, and composer into the
// single inbound operation. Stages run strictly in sequence; at most
// one generative call and one store query are outstanding per request.
type Pipeline struct {
	synthesizer *Synthesizer
	gatekeeper  *Gatekeeper
	composer    *Composer
	logger      *slog.Logger
}

func NewPipeline(service genai.Service, db *sql.DB, schema SchemaDescription, queryTimeout time.Duration, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		synthesizer: NewSynthesizer(service, schema),
		gatekeeper:  NewGatekeeper(db, queryTimeout),
		composer:    NewComposer(service),
		logger:      logger,
	}
}

// Answer runs the full pipeline for one question. It never returns an
// error: every failure mode collapses to a user-facing answer, and an
// unexpected fault is caught at this boundary and turned into a generic
// apology.
func (p *Pipeline) Answer(ctx context.Context, question string) (answer FinalAnswer) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "assistant pipeline panicked",
				slog.Any("panic", r),
				slog.String("trace_id", observability.TraceIDFromContext(ctx)),
			)
			observability.ObserveAssistantQuestion(observability.OutcomeInternalFault)
			answer = FinalAnswer{Answer: msgGenericApology}
		}
	}()

	candidate, err := p.synthesizer.Synthesize(ctx, question)
	if err != nil {
		p.logger.WarnContext(ctx, "query synthesis failed",
			slog.String("error", err.Error()),
			slog.String("trace_id", observability.TraceIDFromContext(ctx)),
		)
		observability.ObserveAssistantQuestion(observability.OutcomeDirectAnswer)
		return FinalAnswer{Answer: p.composer.ComposeDirect(ctx, question)}
	}

	outcome := p.gatekeeper.Run(ctx, candidate)
	switch outcome.Kind {
	case OutcomeRejected:
		p.logger.InfoContext(ctx, "candidate rejected by read-only gate",
			slog.String("reason", outcome.Reason),
			slog.String("trace_id", observability.TraceIDFromContext(ctx)),
		)
		observability.IncrementRejectedQuery()
		observability.ObserveAssistantQuestion(observability.OutcomeDirectAnswer)
		return FinalAnswer{Answer: p.composer.ComposeDirect(ctx, question)}

	case OutcomeFailed:
		p.logger.WarnContext(ctx, "query execution failed",
			slog.String("reason", outcome.Reason),
			slog.String("trace_id", observability.TraceIDFromContext(ctx)),
		)
		observability.ObserveAssistantQuestion(observability.OutcomeExecutionFailed)
		return FinalAnswer{Answer: p.composer.ComposeExecutionFailed(outcome.Reason)}

	default:
		observability.ObserveAssistantQuestion(observability.OutcomeAnsweredFromData)
		return FinalAnswer{
			Query:  &candidate,
			Answer: p.composer.ComposeFromRows(ctx, question, outcome.Result),
		}
	}
}
