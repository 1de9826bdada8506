package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendProgressEvent(ctx context.Context, data ProgressEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO progress_events
			(sequence, session_id, event_type, question, question_type, strategy, hint_number, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.EventType, data.Question,
		data.QuestionType, data.Strategy, data.HintNumber, data.Summary,
	)
	if err != nil {
		return fmt.Errorf("save progress event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryProgressEvents(ctx context.Context, opts QueryOpts) ([]ProgressEvent, error) {
	q := `SELECT id, sequence, timestamp, session_id, event_type, question,
	             question_type, strategy, hint_number, summary
	      FROM progress_events`
	var args []any
	if opts.SessionID != "" {
		q += ` WHERE session_id = ?`
		args = append(args, opts.SessionID)
	}
	q += ` ORDER BY sequence DESC`
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress events: %w", err)
	}
	defer rows.Close()

	var events []ProgressEvent
	for rows.Next() {
		var e ProgressEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID,
			&e.EventType, &e.Question, &e.QuestionType, &e.Strategy,
			&e.HintNumber, &e.Summary); err != nil {
			return nil, fmt.Errorf("scan progress event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) Aggregate(ctx context.Context) (*SessionAggregate, error) {
	agg := &SessionAggregate{
		QuestionsByType: make(map[string]int),
		StrategiesUsed:  make(map[string]int),
	}

	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(CASE WHEN event_type = 'question_asked' THEN 1 END),
			COUNT(CASE WHEN event_type = 'hint_requested' THEN 1 END),
			COUNT(DISTINCT session_id)
		 FROM progress_events`,
	).Scan(&agg.TotalQuestions, &agg.HintsRequested, &agg.Sessions)
	if err != nil {
		return nil, fmt.Errorf("aggregate totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT question_type, strategy FROM progress_events WHERE event_type = 'question_asked'`)
	if err != nil {
		return nil, fmt.Errorf("aggregate breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var qt, strat string
		if err := rows.Scan(&qt, &strat); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		if qt != "" {
			agg.QuestionsByType[qt]++
		}
		if strat != "" {
			agg.StrategiesUsed[strat]++
		}
	}
	return agg, rows.Err()
}
