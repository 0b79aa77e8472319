package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var resultColumns = []string{
	"id", "sequence", "timestamp", "session_id", "catalog_version",
	"total", "max_score", "percentage", "tier",
	"answers", "recommendations", "categories",
}

// eventRepo implements EventRepo over the event tables and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendResult(ctx context.Context, data ResultEventData) error {
	answers, err := marshalJSON(orEmptyMap(data.Answers))
	if err != nil {
		return err
	}
	recs, err := marshalJSON(orEmptySlice(data.Recommendations))
	if err != nil {
		return err
	}
	cats, err := marshalJSON(orEmptySlice(data.Categories))
	if err != nil {
		return err
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := builder().Insert(tableResultEvents).
		Columns(resultColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.CatalogVersion,
			data.Total, data.Max, data.Percentage, data.Tier,
			answers, recs, cats,
		)
	if _, err := exec(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save result event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryResults(ctx context.Context, opts QueryOpts) ([]ResultEventRecord, error) {
	sel := builder().Select(resultColumns...).From(entsql.Table(tableResultEvents))
	rows, err := query(ctx, r.db, applyQueryOpts(sel, opts))
	if err != nil {
		return nil, fmt.Errorf("query result events: %w", err)
	}
	defer rows.Close()

	var out []ResultEventRecord
	for rows.Next() {
		var rec ResultEventRecord
		var answers, recs, cats []byte
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.CatalogVersion,
			&rec.Total, &rec.Max, &rec.Percentage, &rec.Tier,
			&answers, &recs, &cats,
		); err != nil {
			return nil, fmt.Errorf("scan result event: %w", err)
		}
		if err := unmarshalJSON(answers, &rec.Answers); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(recs, &rec.Recommendations); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(cats, &rec.Categories); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) ResultStats(ctx context.Context) (ResultStats, error) {
	stats := ResultStats{ByTier: make(map[string]int)}

	agg := builder().
		Select(entsql.Count("*"), entsql.Avg("percentage"), entsql.Max("percentage")).
		From(entsql.Table(tableResultEvents))
	q, args := agg.Query()
	var avg, best sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&stats.Count, &avg, &best); err != nil {
		return stats, fmt.Errorf("aggregate results: %w", err)
	}
	stats.AvgPercentage = avg.Float64
	stats.BestPercentage = best.Float64

	byTier := builder().
		Select("tier", entsql.Count("*")).
		From(entsql.Table(tableResultEvents)).
		GroupBy("tier")
	rows, err := query(ctx, r.db, byTier)
	if err != nil {
		return stats, fmt.Errorf("count results by tier: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tier string
			n    int
		)
		if err := rows.Scan(&tier, &n); err != nil {
			return stats, fmt.Errorf("scan tier count: %w", err)
		}
		stats.ByTier[tier] = n
	}
	return stats, rows.Err()
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
