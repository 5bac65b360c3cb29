package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/results"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// MemoryStore is an in-process Store. It is the default backend and the one
// used by tests.
type MemoryStore struct {
	opts options

	mu          sync.RWMutex
	players     map[string]model.Player
	playerOrder []string
	matches     map[string]model.Match
	seasons     map[string]model.Season
	seasonOrder []string
	settings    map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	return &MemoryStore{
		opts:     o,
		players:  make(map[string]model.Player),
		matches:  make(map[string]model.Match),
		seasons:  make(map[string]model.Season),
		settings: make(map[string]string),
	}
}

// CreatePlayer implements Store.
func (s *MemoryStore) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if p.ID == "" {
		p.ID = s.opts.newID()
	}
	if err := validatePlayer(p); err != nil {
		return model.Player{}, err
	}

	s.mu.Lock()
	if _, ok := s.players[p.ID]; ok {
		s.mu.Unlock()
		return model.Player{}, fmt.Errorf("%w: player %s already exists", ErrConflict, p.ID)
	}
	s.players[p.ID] = p
	s.playerOrder = append(s.playerOrder, p.ID)
	count := len(s.players)
	s.mu.Unlock()

	metrics.UpdatePlayersTotal(count)
	return p, nil
}

// GetPlayer implements Store.
func (s *MemoryStore) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return model.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, id)
	}
	return p, nil
}

// GetPlayers implements Store.
func (s *MemoryStore) GetPlayers(ctx context.Context, ids []string) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := s.players[id]
		if !ok {
			return nil, fmt.Errorf("%w: player %s", ErrNotFound, id)
		}
		out = append(out, p)
	}
	return out, nil
}

// ListPlayers implements Store.
func (s *MemoryStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		out = append(out, s.players[id])
	}
	return out, nil
}

// UpdatePlayer implements Store.
func (s *MemoryStore) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if err := validatePlayer(p); err != nil {
		return model.Player{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; !ok {
		return model.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, p.ID)
	}
	s.players[p.ID] = p
	return p, nil
}

// DeletePlayer implements Store.
func (s *MemoryStore) DeletePlayer(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.players[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: player %s", ErrNotFound, id)
	}
	for _, m := range s.matches {
		if _, played := m.SideOf(id); played {
			s.mu.Unlock()
			return fmt.Errorf("%w: player %s played in match %s", ErrConflict, id, m.ID)
		}
	}
	delete(s.players, id)
	s.playerOrder = slices.DeleteFunc(s.playerOrder, func(v string) bool { return v == id })
	count := len(s.players)
	s.mu.Unlock()

	metrics.UpdatePlayersTotal(count)
	return nil
}

// CountPlayers implements Store.
func (s *MemoryStore) CountPlayers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), nil
}

// RecordMatch implements Store.
func (s *MemoryStore) RecordMatch(ctx context.Context, m model.Match) (model.Match, error) {
	if m.ID == "" {
		m.ID = s.opts.newID()
	}
	if m.Date.IsZero() {
		m.Date = s.opts.now()
	}
	if err := results.Validate(m); err != nil {
		return model.Match{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[m.ID]; ok {
		return model.Match{}, fmt.Errorf("%w: match %s already exists", ErrConflict, m.ID)
	}
	if err := s.checkSeasonLocked(m.SeasonID); err != nil {
		return model.Match{}, err
	}
	if err := s.foldLocked(nil, &m); err != nil {
		return model.Match{}, err
	}
	s.matches[m.ID] = cloneMatch(m)

	metrics.RecordMatchRecorded()
	s.opts.log.Debug(ctx, "match recorded",
		logger.String("match_id", m.ID),
		logger.Int("participants", len(m.Participants())))
	return m, nil
}

// ReplaceMatch implements Store.
func (s *MemoryStore) ReplaceMatch(ctx context.Context, m model.Match) (model.Match, error) {
	if err := results.Validate(m); err != nil {
		return model.Match{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.matches[m.ID]
	if !ok {
		return model.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, m.ID)
	}
	if m.Date.IsZero() {
		m.Date = old.Date
	}
	if err := s.checkSeasonLocked(m.SeasonID); err != nil {
		return model.Match{}, err
	}
	if err := s.foldLocked(&old, &m); err != nil {
		return model.Match{}, err
	}
	s.matches[m.ID] = cloneMatch(m)
	return m, nil
}

// DeleteMatch implements Store.
func (s *MemoryStore) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.matches[id]
	if !ok {
		return fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	if err := s.foldLocked(&old, nil); err != nil {
		return err
	}
	delete(s.matches, id)
	return nil
}

// foldLocked reverts prev and applies next on a scratch copy of the affected
// players, and commits only when every result is a valid record.
func (s *MemoryStore) foldLocked(prev, next *model.Match) error {
	scratch := make(map[string]model.Player)
	var ids []string
	for _, m := range []*model.Match{prev, next} {
		if m == nil {
			continue
		}
		for _, id := range m.Participants() {
			p, ok := s.players[id]
			if !ok {
				return fmt.Errorf("%w: player %s", ErrNotFound, id)
			}
			if _, seen := scratch[id]; !seen {
				ids = append(ids, id)
			}
			scratch[id] = p
		}
	}
	if prev != nil {
		results.Revert(scratch, *prev)
	}
	if next != nil {
		results.Apply(scratch, *next)
	}
	for _, id := range ids {
		if err := scratch[id].Validate(); err != nil {
			return err
		}
	}
	for _, id := range ids {
		s.players[id] = scratch[id]
	}
	return nil
}

func (s *MemoryStore) checkSeasonLocked(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := s.seasons[id]; !ok {
		return fmt.Errorf("%w: season %s", ErrNotFound, id)
	}
	return nil
}

// GetMatch implements Store.
func (s *MemoryStore) GetMatch(ctx context.Context, id string) (model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return model.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	return cloneMatch(m), nil
}

// ListMatches implements Store.
func (s *MemoryStore) ListMatches(ctx context.Context, seasonID string) ([]model.Match, error) {
	s.mu.RLock()
	out := make([]model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		if seasonID != "" && m.SeasonID != seasonID {
			continue
		}
		out = append(out, cloneMatch(m))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateSeason implements Store.
func (s *MemoryStore) CreateSeason(ctx context.Context, season model.Season) (model.Season, error) {
	if season.ID == "" {
		season.ID = s.opts.newID()
	}
	if err := validateSeason(season); err != nil {
		return model.Season{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seasons[season.ID]; ok {
		return model.Season{}, fmt.Errorf("%w: season %s already exists", ErrConflict, season.ID)
	}
	s.seasons[season.ID] = season
	s.seasonOrder = append(s.seasonOrder, season.ID)
	return season, nil
}

// ListSeasons implements Store.
func (s *MemoryStore) ListSeasons(ctx context.Context) ([]model.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Season, 0, len(s.seasonOrder))
	for _, id := range s.seasonOrder {
		out = append(out, s.seasons[id])
	}
	return out, nil
}

// GetSetting implements Store.
func (s *MemoryStore) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	if !ok {
		return "", fmt.Errorf("%w: setting %s", ErrNotFound, key)
	}
	return v, nil
}

// SetSettings implements Store.
func (s *MemoryStore) SetSettings(ctx context.Context, settings map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range settings {
		s.settings[key] = value
	}
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func validatePlayer(p model.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("%w: player %s has no name", model.ErrInvalidRecord, p.ID)
	}
	return nil
}

func validateSeason(s model.Season) error {
	if s.Name == "" {
		return fmt.Errorf("%w: season has no name", model.ErrInvalidRecord)
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("%w: season %s ends before it starts", model.ErrInvalidRecord, s.Name)
	}
	return nil
}

func cloneMatch(m model.Match) model.Match {
	m.TeamA.PlayerIDs = slices.Clone(m.TeamA.PlayerIDs)
	m.TeamB.PlayerIDs = slices.Clone(m.TeamB.PlayerIDs)
	m.Goals = slices.Clone(m.Goals)
	return m
}
