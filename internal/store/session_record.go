package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionColumns = []string{
	"session_id", "catalog_version", "answers", "cursor", "complete", "reported", "created_at", "updated_at",
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, rec SessionRecord) error {
	answers, err := marshalJSON(orEmptyMap(rec.Answers))
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}

	ins := builder().Insert(tableSessionRecords).
		Columns(sessionColumns...).
		Values(rec.SessionID, rec.CatalogVersion, answers, rec.Cursor, rec.Complete, rec.Reported, created.UTC(), now).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("catalog_version")
				u.SetExcluded("answers")
				u.SetExcluded("cursor")
				u.SetExcluded("complete")
				u.SetExcluded("reported")
				u.SetExcluded("updated_at")
			}),
		)
	if _, err := exec(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save session %s: %w", rec.SessionID, err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context, id string) (SessionRecord, error) {
	sel := builder().Select(sessionColumns...).
		From(entsql.Table(tableSessionRecords)).
		Where(entsql.EQ("session_id", id))
	return r.one(ctx, sel)
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	del := builder().Delete(tableSessionRecords).Where(entsql.EQ("session_id", id))
	if _, err := exec(ctx, r.db, del); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (r *sessionRepo) LatestInProgress(ctx context.Context) (SessionRecord, error) {
	sel := builder().Select(sessionColumns...).
		From(entsql.Table(tableSessionRecords)).
		Where(entsql.EQ("complete", false)).
		OrderBy(entsql.Desc("updated_at"), entsql.Desc("id")).
		Limit(1)
	return r.one(ctx, sel)
}

func (r *sessionRepo) DeleteInProgress(ctx context.Context) (int, error) {
	del := builder().Delete(tableSessionRecords).Where(entsql.EQ("complete", false))
	res, err := exec(ctx, r.db, del)
	if err != nil {
		return 0, fmt.Errorf("delete in-progress sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted sessions: %w", err)
	}
	return int(n), nil
}

func (r *sessionRepo) one(ctx context.Context, sel *entsql.Selector) (SessionRecord, error) {
	q, args := sel.Query()
	var (
		rec     SessionRecord
		answers []byte
	)
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&rec.SessionID, &rec.CatalogVersion, &answers, &rec.Cursor, &rec.Complete, &rec.Reported,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, ErrSessionNotFound
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("load session: %w", err)
	}
	if err := unmarshalJSON(answers, &rec.Answers); err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}
