package assistant

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// OutcomeKind classifies what happened to a candidate query.
type OutcomeKind int

const (
	// OutcomeRows means the candidate passed the gate and executed;
	// the result set may be empty.
	OutcomeRows OutcomeKind = iota
	// OutcomeRejected means the candidate failed the read-only gate
	// and was never sent to the store.
	OutcomeRejected
	// OutcomeFailed means the store rejected or errored on an
	// accepted candidate.
	OutcomeFailed
)

// ResultSet holds executed query output. Columns preserves the store's
// reported order; each row maps column name to value.
type ResultSet struct {
	Columns []string
	Rows    []map[string]any
}

// ExecutionOutcome is the gatekeeper's verdict on one candidate.
type ExecutionOutcome struct {
	Kind   OutcomeKind
	Result ResultSet
	Reason string
}

// Gatekeeper admits only read-only statements and executes them
// verbatim against the store. The gate is a syntactic allow-list, not a
// parser; the connection it runs on must be provisioned read-only.
type Gatekeeper struct {
	db      *sql.DB
	timeout time.Duration
}

func NewGatekeeper(db *sql.DB, timeout time.Duration) *Gatekeeper {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Gatekeeper{db: db, timeout: timeout}
}

// Run gates and executes one candidate. Rejected candidates never reach
// the store. Store errors become OutcomeFailed, never a returned error;
// a single failed attempt is terminal, there are no retries.
func (g *Gatekeeper) Run(ctx context.Context, candidate string) ExecutionOutcome {
	if !isReadOnlyQuery(candidate) {
		return ExecutionOutcome{Kind: OutcomeRejected, Reason: "not a read query"}
	}

	queryCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	rows, err := g.db.QueryContext(queryCtx, candidate)
	if err != nil {
		return ExecutionOutcome{Kind: OutcomeFailed, Reason: err.Error()}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return ExecutionOutcome{Kind: OutcomeFailed, Reason: err.Error()}
	}

	result := ResultSet{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return ExecutionOutcome{Kind: OutcomeFailed, Reason: err.Error()}
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return ExecutionOutcome{Kind: OutcomeFailed, Reason: err.Error()}
	}

	return ExecutionOutcome{Kind: OutcomeRows, Result: result}
}

// isReadOnlyQuery accepts statements that begin with select or with
// after trimming and case-folding. Everything else, including
// conversational text and the empty string, is refused.
func isReadOnlyQuery(candidate string) bool {
	normalized := strings.ToLower(strings.TrimSpace(candidate))
	return strings.HasPrefix(normalized, "select") || strings.HasPrefix(normalized, "with")
}

// normalizeValue makes driver output printable. Drivers commonly hand
// text columns back as []byte.
func normalizeValue(value any) any {
	if raw, ok := value.([]byte); ok {
		return string(raw)
	}
	return value
}
