package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gamecatalog/internal/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	mediaImage = "image"
	mediaVideo = "video"
)

const gameColumns = `g.id, g.title, g.description, g.story, g.release_date, g.price, g.image_url, g.video_url, g.steam_link, g.created_at, g.updated_at`

type gameRepository struct {
	DB *sql.DB
}

// NewGameRepository returns a domain.GameRepository implemented with Postgres.
func NewGameRepository(db *sql.DB) domain.GameRepository {
	return &gameRepository{DB: db}
}

func (r *gameRepository) Create(ctx context.Context, g *domain.Game) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO games (title, description, story, release_date, price, image_url, video_url, steam_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		g.Title, nullString(g.Description), nullString(g.Story), nullTime(g), nullPrice(g.Price),
		nullString(g.ImageURL), nullString(g.VideoURL), nullString(g.SteamLink), g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
	if err != nil {
		return err
	}
	if err := insertMedia(ctx, tx, g); err != nil {
		return err
	}
	if err := insertGameTags(ctx, tx, g.ID, g.TagIDs()); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *gameRepository) GetByID(ctx context.Context, id int64) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games g WHERE g.id = $1`
	g, err := scanGame(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound(domain.KindGame, id)
		}
		return nil, err
	}
	if err := loadRelations(ctx, r.DB, []*domain.Game{g}); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *gameRepository) Update(ctx context.Context, g *domain.Game) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE games SET title = $2, description = $3, story = $4, release_date = $5, price = $6,
			image_url = $7, video_url = $8, steam_link = $9, updated_at = $10
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query,
		g.ID, g.Title, nullString(g.Description), nullString(g.Story), nullTime(g), nullPrice(g.Price),
		nullString(g.ImageURL), nullString(g.VideoURL), nullString(g.SteamLink), g.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if rowsAffected(result) == 0 {
		return domain.NewNotFound(domain.KindGame, g.ID)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM game_media WHERE game_id = $1`, g.ID); err != nil {
		return err
	}
	if err := insertMedia(ctx, tx, g); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM game_tags WHERE game_id = $1`, g.ID); err != nil {
		return err
	}
	if err := insertGameTags(ctx, tx, g.ID, g.TagIDs()); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *gameRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rowsAffected(result) == 0 {
		return domain.NewNotFound(domain.KindGame, id)
	}
	return nil
}

// Search counts and pages inside one read-only repeatable-read transaction, so Total
// and the returned page come from the same snapshot.
func (r *gameRepository) Search(ctx context.Context, filter domain.GameFilter, p domain.PaginationParams) ([]*domain.Game, int, error) {
	where, args := filterClause(filter)

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM games g`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	games := []*domain.Game{}
	if total > 0 {
		query := fmt.Sprintf(`SELECT %s FROM games g%s ORDER BY g.id LIMIT $%d OFFSET $%d`,
			gameColumns, where, len(args)+1, len(args)+2)
		args = append(args, p.PageSize, p.Offset())
		if games, err = queryGames(ctx, tx, query, args...); err != nil {
			return nil, 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

// filterClause renders the WHERE clause for filter with positional args starting at $1.
func filterClause(filter domain.GameFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Title != "" {
		args = append(args, "%"+escapeLike(filter.Title)+"%")
		conds = append(conds, fmt.Sprintf("g.title ILIKE $%d", len(args)))
	}
	if filter.TagID != nil {
		args = append(args, *filter.TagID)
		conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM game_tags gt WHERE gt.game_id = g.id AND gt.tag_id = $%d)", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *gameRepository) ListByTagIDs(ctx context.Context, tagIDs []int64) ([]*domain.Game, error) {
	if len(tagIDs) == 0 {
		return []*domain.Game{}, nil
	}
	query := `SELECT ` + gameColumns + ` FROM games g
		WHERE EXISTS (SELECT 1 FROM game_tags gt WHERE gt.game_id = g.id AND gt.tag_id = ANY($1))
		ORDER BY g.id`
	return queryGames(ctx, r.DB, query, pq.Array(tagIDs))
}

func (r *gameRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Game, error) {
	if len(ids) == 0 {
		return []*domain.Game{}, nil
	}
	query := `SELECT ` + gameColumns + ` FROM games g WHERE g.id = ANY($1) ORDER BY g.id`
	return queryGames(ctx, r.DB, query, pq.Array(ids))
}

func (r *gameRepository) AddTag(ctx context.Context, gameID, tagID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO game_tags (game_id, tag_id) VALUES ($1, $2) ON CONFLICT (game_id, tag_id) DO NOTHING`,
		gameID, tagID)
	if err != nil && pgErrorCode(err) == pgForeignKeyViolation {
		if strings.Contains(pgConstraint(err), "game_id") {
			return domain.NewNotFound(domain.KindGame, gameID)
		}
		return domain.NewNotFound(domain.KindTag, tagID)
	}
	return err
}

func (r *gameRepository) RemoveTag(ctx context.Context, gameID, tagID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM game_tags WHERE game_id = $1 AND tag_id = $2`, gameID, tagID)
	return err
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryGames(ctx context.Context, q queryer, query string, args ...any) ([]*domain.Game, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	games := make([]*domain.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := loadRelations(ctx, q, games); err != nil {
		return nil, err
	}
	return games, nil
}

// loadRelations fills Tags and the additional media lists of games with two batched queries.
func loadRelations(ctx context.Context, q queryer, games []*domain.Game) error {
	if len(games) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Game, len(games))
	ids := make([]int64, 0, len(games))
	for _, g := range games {
		byID[g.ID] = g
		ids = append(ids, g.ID)
	}
	if err := loadTags(ctx, q, ids, byID); err != nil {
		return err
	}
	return loadMedia(ctx, q, ids, byID)
}

func loadTags(ctx context.Context, q queryer, ids []int64, byID map[int64]*domain.Game) error {
	rows, err := q.QueryContext(ctx,
		`SELECT gt.game_id, t.id, t.name FROM game_tags gt
		 JOIN tags t ON t.id = gt.tag_id
		 WHERE gt.game_id = ANY($1)
		 ORDER BY t.name, t.id`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var gameID int64
		var tag domain.Tag
		if err := rows.Scan(&gameID, &tag.ID, &tag.Name); err != nil {
			return err
		}
		if g, ok := byID[gameID]; ok {
			g.Tags = append(g.Tags, &tag)
		}
	}
	return rows.Err()
}

func loadMedia(ctx context.Context, q queryer, ids []int64, byID map[int64]*domain.Game) error {
	rows, err := q.QueryContext(ctx,
		`SELECT game_id, kind, url FROM game_media
		 WHERE game_id = ANY($1)
		 ORDER BY game_id, kind, position`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var gameID int64
		var kind, url string
		if err := rows.Scan(&gameID, &kind, &url); err != nil {
			return err
		}
		g, ok := byID[gameID]
		if !ok {
			continue
		}
		switch kind {
		case mediaImage:
			g.AdditionalImageURLs = append(g.AdditionalImageURLs, url)
		case mediaVideo:
			g.AdditionalVideoURLs = append(g.AdditionalVideoURLs, url)
		}
	}
	return rows.Err()
}

func insertMedia(ctx context.Context, tx *sql.Tx, g *domain.Game) error {
	const query = `INSERT INTO game_media (game_id, kind, position, url) VALUES ($1, $2, $3, $4)`
	for i, url := range g.AdditionalImageURLs {
		if _, err := tx.ExecContext(ctx, query, g.ID, mediaImage, i, url); err != nil {
			return err
		}
	}
	for i, url := range g.AdditionalVideoURLs {
		if _, err := tx.ExecContext(ctx, query, g.ID, mediaVideo, i, url); err != nil {
			return err
		}
	}
	return nil
}

func insertGameTags(ctx context.Context, tx *sql.Tx, gameID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO game_tags (game_id, tag_id) VALUES ($1, $2) ON CONFLICT (game_id, tag_id) DO NOTHING`,
			gameID, tagID)
		if err != nil {
			if pgErrorCode(err) == pgForeignKeyViolation {
				return domain.NewNotFound(domain.KindTag, tagID)
			}
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.Game, error) {
	g := &domain.Game{
		AdditionalImageURLs: []string{},
		AdditionalVideoURLs: []string{},
		Tags:                []*domain.Tag{},
	}
	var description, story, imageURL, videoURL, steamLink sql.NullString
	var releaseDate sql.NullTime
	var price decimal.NullDecimal
	err := row.Scan(
		&g.ID, &g.Title, &description, &story, &releaseDate, &price,
		&imageURL, &videoURL, &steamLink, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Description = description.String
	g.Story = story.String
	g.ImageURL = imageURL.String
	g.VideoURL = videoURL.String
	g.SteamLink = steamLink.String
	if releaseDate.Valid {
		g.ReleaseDate = &releaseDate.Time
	}
	if price.Valid {
		g.Price = &price.Decimal
	}
	return g, nil
}

func nullTime(g *domain.Game) sql.NullTime {
	if g.ReleaseDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *g.ReleaseDate, Valid: true}
}

func nullPrice(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}
