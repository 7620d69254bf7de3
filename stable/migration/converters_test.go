package migration

import (
	"testing"
	"time"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
)

func TestCycleForTimestamp(t *testing.T) {
	epoch := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"at the epoch", epoch, 1},
		{"later the same day", epoch.Add(23 * time.Hour), 1},
		{"next day", epoch.Add(24 * time.Hour), 2},
		{"a week in", epoch.AddDate(0, 0, 7).Add(6 * time.Hour), 8},
		{"before the epoch", epoch.Add(-time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cycleForTimestamp(epoch, tt.at); got != tt.want {
				t.Errorf("cycleForTimestamp(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestBattleEventType(t *testing.T) {
	if got := battleEventType("tag_team"); got != models.EventTagTeamBattle {
		t.Errorf("battleEventType(tag_team) = %s, want %s", got, models.EventTagTeamBattle)
	}
	if got := battleEventType("standard"); got != models.EventBattleComplete {
		t.Errorf("battleEventType(standard) = %s, want %s", got, models.EventBattleComplete)
	}
}

func TestConvertBattle(t *testing.T) {
	epoch := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	createdAt := epoch.AddDate(0, 0, 2).Add(13 * time.Hour)

	battle := &LegacyBattle{
		BattleID:   9001,
		BattleType: "standard",
		WinnerID:   11,
		CreatedAt:  createdAt,
		Participants: []LegacyParticipant{
			{
				RobotID:          11,
				UserID:           1,
				OpponentRobotID:  22,
				Result:           "win",
				Winnings:         1500,
				StreamingRevenue: 300,
				RepairCost:       450,
				PrestigeAwarded:  10,
				FameAwarded:      20,
			},
			{
				RobotID:         22,
				UserID:          2,
				OpponentRobotID: 11,
				Result:          "loss",
				Winnings:        500,
			},
		},
	}

	events, participants := convertBattle(battle, epoch)

	if len(participants) != 2 {
		t.Fatalf("len(participants) = %d, want 2", len(participants))
	}
	winner := participants[0]
	if winner.BattleID != 9001 || winner.RobotID != 11 || winner.OpponentRobotID != 22 {
		t.Errorf("winner row = %+v", winner)
	}
	if winner.Winnings != 1500 || winner.StreamingRevenue != 300 || winner.RepairCost != 450 {
		t.Errorf("winner amounts = %+v", winner)
	}

	// Winner takes damage and gets a repair event; loser had no repair bill.
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 2 battle events and 1 repair event", len(events))
	}

	battleEvent := events[0]
	if battleEvent.EventType != models.EventBattleComplete {
		t.Errorf("EventType = %s, want %s", battleEvent.EventType, models.EventBattleComplete)
	}
	if battleEvent.CycleNumber != 3 {
		t.Errorf("CycleNumber = %d, want 3", battleEvent.CycleNumber)
	}
	if battleEvent.Payload.Winnings != 1500 || battleEvent.Payload.Streaming != 300 {
		t.Errorf("battle payload = %+v", battleEvent.Payload)
	}
	if !battleEvent.EventTimestamp.Equal(createdAt) {
		t.Errorf("EventTimestamp = %v, want %v", battleEvent.EventTimestamp, createdAt)
	}

	repairEvent := events[1]
	if repairEvent.EventType != models.EventRobotRepair {
		t.Errorf("EventType = %s, want %s", repairEvent.EventType, models.EventRobotRepair)
	}
	if repairEvent.Payload.Cost != 450 || repairEvent.UserID != 1 || repairEvent.RobotID != 11 {
		t.Errorf("repair event = %+v", repairEvent)
	}

	loserEvent := events[2]
	if loserEvent.UserID != 2 || loserEvent.Payload.Winnings != 500 {
		t.Errorf("loser event = %+v", loserEvent)
	}
}

func TestConvertBattleTagTeam(t *testing.T) {
	epoch := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	battle := &LegacyBattle{
		BattleID:   9002,
		BattleType: "tag_team",
		CreatedAt:  epoch,
		Participants: []LegacyParticipant{
			{RobotID: 11, UserID: 1, Result: "win"},
		},
	}

	events, _ := convertBattle(battle, epoch)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].EventType != models.EventTagTeamBattle {
		t.Errorf("EventType = %s, want %s", events[0].EventType, models.EventTagTeamBattle)
	}
}
