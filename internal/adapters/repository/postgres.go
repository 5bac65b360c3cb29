package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/elliotchance/pie/v2"
	"github.com/lib/pq"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/results"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// Postgres error codes mapped to store errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// PostgresStore is a Store backed by PostgreSQL through lib/pq.
type PostgresStore struct {
	db   *sql.DB
	opts options
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore opens a connection pool for dsn, verifies it and creates
// the schema when missing.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := newPostgresStore(db, opts...)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.opts.log.Info(ctx, "postgres store ready")
	return s, nil
}

func newPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	return &PostgresStore{db: db, opts: o}
}

// Migrate creates the tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS players (
			seq     BIGSERIAL,
			id      TEXT PRIMARY KEY,
			name    TEXT NOT NULL,
			matches INT  NOT NULL DEFAULT 0,
			wins    INT  NOT NULL DEFAULT 0,
			losses  INT  NOT NULL DEFAULT 0,
			goals   INT  NOT NULL DEFAULT 0,
			assists INT  NOT NULL DEFAULT 0,
			CHECK (matches >= 0 AND wins >= 0 AND losses >= 0 AND goals >= 0 AND assists >= 0),
			CHECK (wins + losses <= matches)
		)`,
		`CREATE TABLE IF NOT EXISTS seasons (
			seq        BIGSERIAL,
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date   TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id        TEXT PRIMARY KEY,
			played_at TIMESTAMPTZ NOT NULL,
			season_id TEXT REFERENCES seasons(id),
			team_a    TEXT[] NOT NULL,
			team_b    TEXT[] NOT NULL,
			score_a   INT NOT NULL,
			score_b   INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS goals (
			match_id     TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			position     INT  NOT NULL,
			player_id    TEXT NOT NULL,
			assist_by_id TEXT,
			minute       INT  NOT NULL,
			PRIMARY KEY (match_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

const playerColumns = `id, name, matches, wins, losses, goals, assists`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (model.Player, error) {
	var p model.Player
	err := row.Scan(&p.ID, &p.Name, &p.Matches, &p.Wins, &p.Losses, &p.Goals, &p.Assists)
	return p, err
}

// CreatePlayer implements Store.
func (s *PostgresStore) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if p.ID == "" {
		p.ID = s.opts.newID()
	}
	if err := validatePlayer(p); err != nil {
		return model.Player{}, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (`+playerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Matches, p.Wins, p.Losses, p.Goals, p.Assists)
	if err != nil {
		return model.Player{}, mapError(err, "player "+p.ID)
	}
	s.publishPlayerCount(ctx)
	return p, nil
}

// GetPlayer implements Store.
func (s *PostgresStore) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
	if err != nil {
		return model.Player{}, mapError(err, "player "+id)
	}
	return p, nil
}

// GetPlayers implements Store.
func (s *PostgresStore) GetPlayers(ctx context.Context, ids []string) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]model.Player, len(ids))
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating players: %w", err)
	}

	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: player %s", ErrNotFound, id)
		}
		out = append(out, p)
	}
	return out, nil
}

// ListPlayers implements Store.
func (s *PostgresStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePlayer implements Store.
func (s *PostgresStore) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if err := validatePlayer(p); err != nil {
		return model.Player{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET name = $2, matches = $3, wins = $4, losses = $5, goals = $6, assists = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Matches, p.Wins, p.Losses, p.Goals, p.Assists)
	if err != nil {
		return model.Player{}, mapError(err, "player "+p.ID)
	}
	if err := expectOneRow(res, "player "+p.ID); err != nil {
		return model.Player{}, err
	}
	return p, nil
}

// DeletePlayer implements Store.
func (s *PostgresStore) DeletePlayer(ctx context.Context, id string) error {
	var played bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE $1 = ANY(team_a) OR $1 = ANY(team_b))`, id).Scan(&played)
	if err != nil {
		return fmt.Errorf("checking matches of player %s: %w", id, err)
	}
	if played {
		return fmt.Errorf("%w: player %s played in a recorded match", ErrConflict, id)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "player "+id)
	}
	if err := expectOneRow(res, "player "+id); err != nil {
		return err
	}
	s.publishPlayerCount(ctx)
	return nil
}

// CountPlayers implements Store.
func (s *PostgresStore) CountPlayers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting players: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) publishPlayerCount(ctx context.Context) {
	n, err := s.CountPlayers(ctx)
	if err != nil {
		s.opts.log.Warn(ctx, "failed to count players", logger.Error(err))
		return
	}
	metrics.UpdatePlayersTotal(n)
}

// RecordMatch implements Store.
func (s *PostgresStore) RecordMatch(ctx context.Context, m model.Match) (model.Match, error) {
	if m.ID == "" {
		m.ID = s.opts.newID()
	}
	if m.Date.IsZero() {
		m.Date = s.opts.now()
	}
	if err := results.Validate(m); err != nil {
		return model.Match{}, err
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertMatch(ctx, tx, m); err != nil {
			return err
		}
		return applyDeltas(ctx, tx, m, 1)
	})
	if err != nil {
		return model.Match{}, err
	}
	metrics.RecordMatchRecorded()
	s.opts.log.Debug(ctx, "match recorded",
		logger.String("match_id", m.ID),
		logger.Int("participants", len(m.Participants())))
	return m, nil
}

// ReplaceMatch implements Store.
func (s *PostgresStore) ReplaceMatch(ctx context.Context, m model.Match) (model.Match, error) {
	if err := results.Validate(m); err != nil {
		return model.Match{}, err
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		old, err := selectMatch(ctx, tx, m.ID, true)
		if err != nil {
			return err
		}
		if m.Date.IsZero() {
			m.Date = old.Date
		}
		if err := applyDeltas(ctx, tx, old, -1); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, m.ID); err != nil {
			return mapError(err, "match "+m.ID)
		}
		if err := insertMatch(ctx, tx, m); err != nil {
			return err
		}
		return applyDeltas(ctx, tx, m, 1)
	})
	if err != nil {
		return model.Match{}, err
	}
	return m, nil
}

// DeleteMatch implements Store.
func (s *PostgresStore) DeleteMatch(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		old, err := selectMatch(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := applyDeltas(ctx, tx, old, -1); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
		return mapError(err, "match "+id)
	})
}

// GetMatch implements Store.
func (s *PostgresStore) GetMatch(ctx context.Context, id string) (model.Match, error) {
	var m model.Match
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		m, err = selectMatch(ctx, tx, id, false)
		return err
	})
	return m, err
}

// ListMatches implements Store.
func (s *PostgresStore) ListMatches(ctx context.Context, seasonID string) ([]model.Match, error) {
	var out []model.Match
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM matches WHERE $1 = '' OR season_id = $1 ORDER BY played_at, id`, seasonID)
		if err != nil {
			return fmt.Errorf("querying matches: %w", err)
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("scanning match id: %w", err)
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating matches: %w", err)
		}
		for _, id := range ids {
			m, err := selectMatch(ctx, tx, id, false)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return nil
	})
	return out, err
}

func insertMatch(ctx context.Context, tx *sql.Tx, m model.Match) error {
	var season sql.NullString
	if m.SeasonID != "" {
		season = sql.NullString{String: m.SeasonID, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO matches (id, played_at, season_id, team_a, team_b, score_a, score_b)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Date, season, pq.Array(m.TeamA.PlayerIDs), pq.Array(m.TeamB.PlayerIDs),
		m.TeamA.Score, m.TeamB.Score)
	if err != nil {
		return mapError(err, "match "+m.ID)
	}
	for i, g := range m.Goals {
		var assist sql.NullString
		if g.AssistByID != "" {
			assist = sql.NullString{String: g.AssistByID, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO goals (match_id, position, player_id, assist_by_id, minute) VALUES ($1, $2, $3, $4, $5)`,
			m.ID, i, g.PlayerID, assist, g.Minute)
		if err != nil {
			return mapError(err, "goal of match "+m.ID)
		}
	}
	return nil
}

func selectMatch(ctx context.Context, tx *sql.Tx, id string, forUpdate bool) (model.Match, error) {
	q := `SELECT id, played_at, season_id, team_a, team_b, score_a, score_b FROM matches WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	var (
		m      model.Match
		season sql.NullString
		teamA  pq.StringArray
		teamB  pq.StringArray
	)
	err := tx.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Date, &season, &teamA, &teamB, &m.TeamA.Score, &m.TeamB.Score)
	if err != nil {
		return model.Match{}, mapError(err, "match "+id)
	}
	m.SeasonID = season.String
	m.Date = m.Date.UTC()
	m.TeamA.PlayerIDs = []string(teamA)
	m.TeamB.PlayerIDs = []string(teamB)

	rows, err := tx.QueryContext(ctx,
		`SELECT player_id, assist_by_id, minute FROM goals WHERE match_id = $1 ORDER BY position`, id)
	if err != nil {
		return model.Match{}, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			g      model.Goal
			assist sql.NullString
		)
		if err := rows.Scan(&g.PlayerID, &assist, &g.Minute); err != nil {
			return model.Match{}, fmt.Errorf("scanning goal: %w", err)
		}
		g.AssistByID = assist.String
		m.Goals = append(m.Goals, g)
	}
	return m, rows.Err()
}

// applyDeltas adds sign times the match deltas to every participant. A
// participant missing from the players table aborts the transaction.
func applyDeltas(ctx context.Context, tx *sql.Tx, m model.Match, sign int) error {
	deltas := results.Deltas(m)
	for _, id := range m.Participants() {
		d := deltas[id]
		res, err := tx.ExecContext(ctx,
			`UPDATE players SET matches = matches + $2, wins = wins + $3, losses = losses + $4,
			 goals = goals + $5, assists = assists + $6 WHERE id = $1`,
			id, sign*d.Matches, sign*d.Wins, sign*d.Losses, sign*d.Goals, sign*d.Assists)
		if err != nil {
			return mapError(err, "player "+id)
		}
		if err := expectOneRow(res, "player "+id); err != nil {
			return err
		}
	}
	return nil
}

// CreateSeason implements Store.
func (s *PostgresStore) CreateSeason(ctx context.Context, season model.Season) (model.Season, error) {
	if season.ID == "" {
		season.ID = s.opts.newID()
	}
	if err := validateSeason(season); err != nil {
		return model.Season{}, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seasons (id, name, start_date, end_date) VALUES ($1, $2, $3, $4)`,
		season.ID, season.Name, season.StartDate, season.EndDate)
	if err != nil {
		return model.Season{}, mapError(err, "season "+season.ID)
	}
	return season, nil
}

// ListSeasons implements Store.
func (s *PostgresStore) ListSeasons(ctx context.Context) ([]model.Season, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, start_date, end_date FROM seasons ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying seasons: %w", err)
	}
	defer rows.Close()

	var out []model.Season
	for rows.Next() {
		var (
			season model.Season
			end    sql.NullTime
		)
		if err := rows.Scan(&season.ID, &season.Name, &season.StartDate, &end); err != nil {
			return nil, fmt.Errorf("scanning season: %w", err)
		}
		season.StartDate = season.StartDate.UTC()
		if end.Valid {
			t := end.Time.UTC()
			season.EndDate = &t
		}
		out = append(out, season)
	}
	return out, rows.Err()
}

// GetSetting implements Store.
func (s *PostgresStore) GetSetting(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&v)
	if err != nil {
		return "", mapError(err, "setting "+key)
	}
	return v, nil
}

// SetSettings implements Store. Keys are written in sorted order in one
// transaction.
func (s *PostgresStore) SetSettings(ctx context.Context, settings map[string]string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, key := range pie.Sort(pie.Keys(settings)) {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO settings (key, value) VALUES ($1, $2)
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, settings[key])
			if err != nil {
				return mapError(err, "setting "+key)
			}
		}
		return nil
	})
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.opts.log.Warn(ctx, "rollback failed", logger.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return nil
}

// mapError translates driver errors into store sentinels.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s already exists", ErrConflict, what)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s references a missing row", ErrNotFound, what)
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", model.ErrInvalidRecord, what)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}
