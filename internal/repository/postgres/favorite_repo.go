package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gamecatalog/internal/domain"
)

type favoriteRelation struct {
	table  string
	column string
	// entity is the NotFoundError kind reported when the target row is gone.
	entity string
}

var favoriteRelations = map[domain.FavoriteKind]favoriteRelation{
	domain.FavoriteGameKind: {table: "user_favorite_games", column: "game_id", entity: domain.KindGame},
	domain.FavoriteTagKind:  {table: "user_favorite_tags", column: "tag_id", entity: domain.KindTag},
}

type favoriteRepository struct {
	DB *sql.DB
}

// NewFavoriteRepository returns a domain.FavoriteRepository implemented with Postgres.
func NewFavoriteRepository(db *sql.DB) domain.FavoriteRepository {
	return &favoriteRepository{DB: db}
}

// Toggle flips membership of (userID, targetID) in one transaction. A transaction-scoped
// advisory lock on the pair serializes concurrent toggles, so two callers can never both
// observe "absent" and insert. The lock is released by commit or rollback.
//
// ctx governs the lock wait and the existence check; once the mutation starts the
// toggle runs to completion even if ctx is cancelled.
func (r *favoriteRepository) Toggle(ctx context.Context, kind domain.FavoriteKind, userID, targetID int64) (bool, error) {
	rel, ok := favoriteRelations[kind]
	if !ok {
		return false, fmt.Errorf("unknown favorite kind %q", kind)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	txCtx := context.WithoutCancel(ctx)
	tx, err := r.DB.BeginTx(txCtx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	lockKey := fmt.Sprintf("favorite_%s:%d:%d", kind, userID, targetID)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return false, rel.toggleError(err, userID, targetID)
	}

	var exists bool
	existsQuery := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = $1 AND %s = $2)`, rel.table, rel.column)
	if err := tx.QueryRowContext(ctx, existsQuery, userID, targetID).Scan(&exists); err != nil {
		return false, rel.toggleError(err, userID, targetID)
	}

	if exists {
		_, err = tx.ExecContext(txCtx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND %s = $2`, rel.table, rel.column), userID, targetID)
	} else {
		_, err = tx.ExecContext(txCtx, fmt.Sprintf(`INSERT INTO %s (user_id, %s) VALUES ($1, $2)`, rel.table, rel.column), userID, targetID)
	}
	if err != nil {
		return false, rel.toggleError(err, userID, targetID)
	}
	if err := tx.Commit(); err != nil {
		return false, rel.toggleError(err, userID, targetID)
	}
	return !exists, nil
}

func (r *favoriteRepository) ListTargetIDs(ctx context.Context, kind domain.FavoriteKind, userID int64) ([]int64, error) {
	rel, ok := favoriteRelations[kind]
	if !ok {
		return nil, fmt.Errorf("unknown favorite kind %q", kind)
	}
	query := fmt.Sprintf(`SELECT %[2]s FROM %[1]s WHERE user_id = $1 ORDER BY %[2]s`, rel.table, rel.column)
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// toggleError maps transaction aborts and pair-uniqueness races to domain.ErrConflict,
// and a foreign key race (user or target deleted mid-toggle) to a *domain.NotFoundError.
func (rel favoriteRelation) toggleError(err error, userID, targetID int64) error {
	switch pgErrorCode(err) {
	case pgSerializationFailure, pgDeadlockDetected, pgUniqueViolation:
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case pgForeignKeyViolation:
		if strings.Contains(pgConstraint(err), "user_id") {
			return domain.NewNotFound(domain.KindUser, userID)
		}
		return domain.NewNotFound(rel.entity, targetID)
	}
	return err
}
