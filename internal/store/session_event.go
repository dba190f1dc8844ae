package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type sessionRow struct {
	TS           int64  `db:"ts"`
	SessionID    string `db:"session_id"`
	Mode         string `db:"mode"`
	Total        int    `db:"total"`
	Correct      int    `db:"correct"`
	DurationSecs int    `db:"duration_secs"`
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("session_events").
		Columns("sequence", "ts", "session_id", "mode", "action", "total", "correct", "duration_secs").
		Values(seqNum, time.Now().UnixMilli(), data.SessionID, data.Mode, data.Action,
			data.Total, data.Correct, data.DurationSecs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	sel := builder().
		Select("ts", "session_id", "mode", "total", "correct", "duration_secs").
		From(entsql.Table("session_events")).
		Where(entsql.EQ("action", ActionEnd))
	query, args := applyOpts(sel, opts).Query()

	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	records := make([]SessionSummaryRecord, len(rows))
	for i, row := range rows {
		records[i] = SessionSummaryRecord{
			SessionID:    row.SessionID,
			Mode:         row.Mode,
			Timestamp:    fromMillis(row.TS),
			Total:        row.Total,
			Correct:      row.Correct,
			DurationSecs: row.DurationSecs,
		}
	}
	return records, nil
}
