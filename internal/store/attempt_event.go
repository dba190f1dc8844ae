package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type attemptRow struct {
	Sequence  int64  `db:"sequence"`
	TS        int64  `db:"ts"`
	SessionID string `db:"session_id"`
	DrugID    int    `db:"drug_id"`
	DrugName  string `db:"drug_name"`
	Relation  string `db:"relation"`
	Prompt    string `db:"prompt"`
	Expected  string `db:"expected"`
	Answer    string `db:"answer"`
	Correct   bool   `db:"correct"`
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("attempt_events").
		Columns("sequence", "ts", "session_id", "drug_id", "drug_name", "relation", "prompt", "expected", "answer", "correct").
		Values(seqNum, time.Now().UnixMilli(), data.SessionID, data.DrugID, data.DrugName, data.Relation,
			data.Prompt, data.Expected, data.Answer, data.Correct).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	sel := builder().
		Select("sequence", "ts", "session_id", "drug_id", "drug_name", "relation", "prompt", "expected", "answer", "correct").
		From(entsql.Table("attempt_events"))
	if opts.DrugID != nil {
		sel.Where(entsql.EQ("drug_id", *opts.DrugID))
	}
	query, args := applyOpts(sel, opts).Query()

	var rows []attemptRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}

	records := make([]AttemptRecord, len(rows))
	for i, row := range rows {
		records[i] = AttemptRecord{
			AttemptEventData: AttemptEventData{
				SessionID: row.SessionID,
				DrugID:    row.DrugID,
				DrugName:  row.DrugName,
				Relation:  row.Relation,
				Prompt:    row.Prompt,
				Expected:  row.Expected,
				Answer:    row.Answer,
				Correct:   row.Correct,
			},
			Sequence:  row.Sequence,
			Timestamp: fromMillis(row.TS),
		}
	}
	return records, nil
}

func (r *eventRepo) DrugAccuracy(ctx context.Context, drugID int) (float64, int, error) {
	query, args := builder().
		Select(entsql.As(entsql.Count("*"), "total"), entsql.As(entsql.Sum("correct"), "correct")).
		From(entsql.Table("attempt_events")).
		Where(entsql.EQ("drug_id", drugID)).
		Query()

	var agg struct {
		Total   int           `db:"total"`
		Correct sql.NullInt64 `db:"correct"`
	}
	if err := r.db.GetContext(ctx, &agg, query, args...); err != nil {
		return 0, 0, fmt.Errorf("query drug accuracy: %w", err)
	}
	if agg.Total == 0 {
		return 0, 0, nil
	}
	return float64(agg.Correct.Int64) / float64(agg.Total), agg.Total, nil
}
