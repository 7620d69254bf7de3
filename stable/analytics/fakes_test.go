package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
)

// fakeEventStore filters in memory with the same semantics as the SQL
// implementation: zero filter fields are ignored, results come back in
// (cycle, sequence) order.
type fakeEventStore struct {
	events []*models.EconomicEvent
}

func (s *fakeEventStore) Events(_ context.Context, filter EventFilter) ([]*models.EconomicEvent, error) {
	var out []*models.EconomicEvent
	for _, ev := range s.events {
		if filter.UserID != 0 && ev.UserID != filter.UserID {
			continue
		}
		if filter.RobotID != 0 && ev.RobotID != filter.RobotID {
			continue
		}
		if len(filter.Types) > 0 && !containsType(filter.Types, ev.EventType) {
			continue
		}
		if filter.FacilityType != "" && ev.Payload.FacilityType != filter.FacilityType {
			continue
		}
		if filter.StartCycle > 0 && ev.CycleNumber < filter.StartCycle {
			continue
		}
		if filter.EndCycle > 0 && ev.CycleNumber > filter.EndCycle {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CycleNumber != out[j].CycleNumber {
			return out[i].CycleNumber < out[j].CycleNumber
		}
		return out[i].SequenceNumber < out[j].SequenceNumber
	})
	return out, nil
}

func containsType(types []models.EventType, t models.EventType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

type fakeSnapshotSource struct {
	snapshots []*models.CycleSnapshot
}

func (s *fakeSnapshotSource) Snapshots(_ context.Context, startCycle, endCycle int) ([]*models.CycleSnapshot, error) {
	var out []*models.CycleSnapshot
	for _, snap := range s.snapshots {
		if snap.CycleNumber >= startCycle && snap.CycleNumber <= endCycle {
			out = append(out, snap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CycleNumber < out[j].CycleNumber
	})
	return out, nil
}

func (s *fakeSnapshotSource) LatestCycle(_ context.Context) (int, error) {
	latest := 0
	for _, snap := range s.snapshots {
		if snap.CycleNumber > latest {
			latest = snap.CycleNumber
		}
	}
	return latest, nil
}

type fakeLedger struct {
	users        map[int64]*models.User
	facilities   map[int64][]*models.Facility
	robots       map[int64][]*models.Robot
	currentCycle int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		users:      map[int64]*models.User{},
		facilities: map[int64][]*models.Facility{},
		robots:     map[int64][]*models.Robot{},
	}
}

func (l *fakeLedger) User(_ context.Context, userID int64) (*models.User, error) {
	return l.users[userID], nil
}

func (l *fakeLedger) Facility(_ context.Context, userID int64, facilityType string) (*models.Facility, error) {
	for _, f := range l.facilities[userID] {
		if f.FacilityType == facilityType {
			return f, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) Facilities(_ context.Context, userID int64) ([]*models.Facility, error) {
	return l.facilities[userID], nil
}

func (l *fakeLedger) Robots(_ context.Context, userID int64) ([]*models.Robot, error) {
	var out []*models.Robot
	for _, r := range l.robots[userID] {
		if !r.IsBye() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *fakeLedger) RobotCount(ctx context.Context, userID int64) (int, error) {
	robots, _ := l.Robots(ctx, userID)
	return len(robots), nil
}

func (l *fakeLedger) CurrentCycle(_ context.Context) (int, error) {
	return l.currentCycle, nil
}

type fakeBattleLookup struct {
	revenue map[string]float64
}

func (b *fakeBattleLookup) StreamingRevenue(_ context.Context, battleID, userID int64) (float64, error) {
	return b.revenue[fmt.Sprintf("%d:%d", battleID, userID)], nil
}

func battleRevenueKey(battleID, userID int64) string {
	return fmt.Sprintf("%d:%d", battleID, userID)
}

func newEvent(cycle, seq int, eventType models.EventType, userID int64, payload models.EventPayload) *models.EconomicEvent {
	return &models.EconomicEvent{
		CycleNumber:    cycle,
		SequenceNumber: seq,
		EventType:      eventType,
		UserID:         userID,
		Payload:        payload,
	}
}
