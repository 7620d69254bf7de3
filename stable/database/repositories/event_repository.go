package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/analytics"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
	"github.com/uptrace/bun"
)

// EventRepository reads and appends the economic audit log. Events are never
// updated or deleted; corrections are compensating events.
type EventRepository interface {
	Log(ctx context.Context, event *models.EconomicEvent) error
	Events(ctx context.Context, filter analytics.EventFilter) ([]*models.EconomicEvent, error)
}

type eventRepository struct {
	db *bun.DB
}

func NewEventRepository(db *bun.DB) EventRepository {
	return &eventRepository{db: db}
}

// Log appends one event, assigning the next sequence number within its
// cycle. The select and insert run in one transaction so two writers in the
// same cycle cannot claim the same slot.
func (r *eventRepository) Log(ctx context.Context, event *models.EconomicEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var nextSeq int
	err = tx.NewSelect().
		Model((*models.EconomicEvent)(nil)).
		ColumnExpr("COALESCE(MAX(sequence_number), 0) + 1").
		Where("cycle_number = ?", event.CycleNumber).
		Scan(ctx, &nextSeq)
	if err != nil {
		return fmt.Errorf("failed to allocate sequence number: %w", err)
	}

	event.SequenceNumber = nextSeq
	if event.EventTimestamp.IsZero() {
		event.EventTimestamp = time.Now().UTC()
	}

	if _, err := tx.NewInsert().Model(event).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}
	return nil
}

func (r *eventRepository) Events(ctx context.Context, filter analytics.EventFilter) ([]*models.EconomicEvent, error) {
	var events []*models.EconomicEvent

	query := r.db.NewSelect().Model(&events)
	if filter.UserID != 0 {
		query = query.Where("ev.user_id = ?", filter.UserID)
	}
	if filter.RobotID != 0 {
		query = query.Where("ev.robot_id = ?", filter.RobotID)
	}
	if len(filter.Types) > 0 {
		query = query.Where("ev.event_type IN (?)", bun.In(filter.Types))
	}
	if filter.FacilityType != "" {
		query = query.Where("ev.payload->>'facilityType' = ?", filter.FacilityType)
	}
	if filter.StartCycle > 0 {
		query = query.Where("ev.cycle_number >= ?", filter.StartCycle)
	}
	if filter.EndCycle > 0 {
		query = query.Where("ev.cycle_number <= ?", filter.EndCycle)
	}

	err := query.
		Order("cycle_number ASC", "sequence_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	return events, nil
}
