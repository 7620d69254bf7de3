package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
)

const battleCacheSize = 10000

// BattleRepository resolves per-battle earnings. Streaming revenue lookups
// are cached: battle rows are immutable once written, and the ROI replay hits
// the same battles repeatedly.
type BattleRepository interface {
	StreamingRevenue(ctx context.Context, battleID, userID int64) (float64, error)
	Participants(ctx context.Context, battleID int64) ([]*models.BattleParticipant, error)
	Insert(ctx context.Context, participants []*models.BattleParticipant) error
}

type battleRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewBattleRepository(db *bun.DB) BattleRepository {
	cache, _ := lru.New(battleCacheSize)
	return &battleRepository{
		db:    db,
		cache: cache,
	}
}

// StreamingRevenue returns what the owner's robot earned from streaming in
// one battle, or 0 when the owner did not take part.
func (r *battleRepository) StreamingRevenue(ctx context.Context, battleID, userID int64) (float64, error) {
	key := fmt.Sprintf("%d:%d", battleID, userID)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(float64), nil
	}

	participant := new(models.BattleParticipant)
	err := r.db.NewSelect().
		Model(participant).
		Where("bp.battle_id = ?", battleID).
		Where("bp.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		r.cache.Add(key, float64(0))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up battle %d: %w", battleID, err)
	}

	r.cache.Add(key, participant.StreamingRevenue)
	return participant.StreamingRevenue, nil
}

func (r *battleRepository) Participants(ctx context.Context, battleID int64) ([]*models.BattleParticipant, error) {
	var participants []*models.BattleParticipant
	err := r.db.NewSelect().
		Model(&participants).
		Where("bp.battle_id = ?", battleID).
		Order("robot_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list battle participants: %w", err)
	}
	return participants, nil
}

// Insert writes battle participant rows in one statement. Used by the legacy
// importer; live battles are written by the game server.
func (r *battleRepository) Insert(ctx context.Context, participants []*models.BattleParticipant) error {
	if len(participants) == 0 {
		return nil
	}
	if _, err := r.db.NewInsert().Model(&participants).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert battle participants: %w", err)
	}
	return nil
}
