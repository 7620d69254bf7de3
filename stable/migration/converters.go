package migration

import (
	"time"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
)

// cycleForTimestamp maps an archive timestamp to a cycle number. The legacy
// server ran one cycle per day, so days since the first archived battle give
// the cycle, starting at 1.
func cycleForTimestamp(epoch, t time.Time) int {
	if t.Before(epoch) {
		return 1
	}
	days := int(t.Sub(epoch).Hours() / 24)
	return days + 1
}

func battleEventType(battleType string) models.EventType {
	if battleType == "tag_team" {
		return models.EventTagTeamBattle
	}
	return models.EventBattleComplete
}

// convertBattle turns one archived battle into per-participant audit events
// and battle participant rows.
func convertBattle(battle *LegacyBattle, epoch time.Time) ([]*models.EconomicEvent, []*models.BattleParticipant) {
	cycle := cycleForTimestamp(epoch, battle.CreatedAt)
	eventType := battleEventType(battle.BattleType)

	events := make([]*models.EconomicEvent, 0, len(battle.Participants))
	participants := make([]*models.BattleParticipant, 0, len(battle.Participants))
	for i := range battle.Participants {
		p := &battle.Participants[i]

		participants = append(participants, &models.BattleParticipant{
			BattleID:         battle.BattleID,
			RobotID:          p.RobotID,
			UserID:           p.UserID,
			OpponentRobotID:  p.OpponentRobotID,
			Result:           p.Result,
			Winnings:         p.Winnings,
			StreamingRevenue: p.StreamingRevenue,
			RepairCost:       p.RepairCost,
			PrestigeAwarded:  p.PrestigeAwarded,
			FameAwarded:      p.FameAwarded,
		})

		events = append(events, &models.EconomicEvent{
			CycleNumber: cycle,
			EventType:   eventType,
			UserID:      p.UserID,
			RobotID:     p.RobotID,
			BattleID:    battle.BattleID,
			Payload: models.EventPayload{
				Winnings:        p.Winnings,
				Streaming:       p.StreamingRevenue,
				PrestigeAwarded: p.PrestigeAwarded,
				FameAwarded:     p.FameAwarded,
			},
			EventTimestamp: battle.CreatedAt,
		})

		// The archive folds repair billing into the battle document; the
		// audit log tracks it as its own event type.
		if p.RepairCost > 0 {
			events = append(events, &models.EconomicEvent{
				CycleNumber: cycle,
				EventType:   models.EventRobotRepair,
				UserID:      p.UserID,
				RobotID:     p.RobotID,
				BattleID:    battle.BattleID,
				Payload: models.EventPayload{
					Cost: p.RepairCost,
				},
				EventTimestamp: battle.CreatedAt,
			})
		}
	}
	return events, participants
}
