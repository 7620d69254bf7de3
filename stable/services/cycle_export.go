package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/analytics"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/repositories"
)

// ExportRow is one participant's line in a cycle export.
type ExportRow struct {
	BattleID         int64
	RobotID          int64
	RobotName        string
	OpponentID       int64
	OpponentName     string
	Result           string
	Winnings         float64
	StreamingRevenue float64
	RepairCost       float64
	PrestigeAwarded  float64
	FameAwarded      float64
}

// CycleExporter assembles a cycle's battle results into a CSV and pushes it
// to Spaces for off-platform analysis.
type CycleExporter struct {
	events  analytics.EventStore
	battles repositories.BattleRepository
	ledger  repositories.LedgerRepository
	spaces  *SpacesService
}

func NewCycleExporter(
	events analytics.EventStore,
	battles repositories.BattleRepository,
	ledger repositories.LedgerRepository,
	spaces *SpacesService,
) *CycleExporter {
	return &CycleExporter{
		events:  events,
		battles: battles,
		ledger:  ledger,
		spaces:  spaces,
	}
}

// Export uploads the given cycle's battle CSV and returns the object key.
func (e *CycleExporter) Export(ctx context.Context, cycleNumber int) (string, error) {
	rows, err := e.collectRows(ctx, cycleNumber)
	if err != nil {
		return "", err
	}

	data, err := BuildCycleCSV(cycleNumber, rows)
	if err != nil {
		return "", err
	}
	return e.spaces.UploadCycleExport(ctx, cycleNumber, data)
}

func (e *CycleExporter) collectRows(ctx context.Context, cycleNumber int) ([]ExportRow, error) {
	events, err := e.events.Events(ctx, analytics.EventFilter{
		Types:      []models.EventType{models.EventBattleComplete, models.EventTagTeamBattle},
		StartCycle: cycleNumber,
		EndCycle:   cycleNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list battles for cycle %d: %w", cycleNumber, err)
	}

	// One battle can emit an event per participant; visit each battle once,
	// in event order.
	seen := make(map[int64]bool)
	var battleIDs []int64
	for _, event := range events {
		if event.BattleID == 0 || seen[event.BattleID] {
			continue
		}
		seen[event.BattleID] = true
		battleIDs = append(battleIDs, event.BattleID)
	}

	var rows []ExportRow
	robotIDSet := make(map[int64]bool)
	participantsByBattle := make(map[int64][]*models.BattleParticipant, len(battleIDs))
	for _, battleID := range battleIDs {
		participants, err := e.battles.Participants(ctx, battleID)
		if err != nil {
			return nil, err
		}
		participantsByBattle[battleID] = participants
		for _, p := range participants {
			robotIDSet[p.RobotID] = true
			if p.OpponentRobotID != 0 {
				robotIDSet[p.OpponentRobotID] = true
			}
		}
	}

	robotIDs := make([]int64, 0, len(robotIDSet))
	for id := range robotIDSet {
		robotIDs = append(robotIDs, id)
	}
	robots, err := e.ledger.RobotsByID(ctx, robotIDs)
	if err != nil {
		return nil, err
	}
	nameOf := func(robotID int64) string {
		if robot, ok := robots[robotID]; ok {
			return robot.Name
		}
		return ""
	}

	for _, battleID := range battleIDs {
		for _, p := range participantsByBattle[battleID] {
			rows = append(rows, ExportRow{
				BattleID:         battleID,
				RobotID:          p.RobotID,
				RobotName:        nameOf(p.RobotID),
				OpponentID:       p.OpponentRobotID,
				OpponentName:     nameOf(p.OpponentRobotID),
				Result:           p.Result,
				Winnings:         p.Winnings,
				StreamingRevenue: p.StreamingRevenue,
				RepairCost:       p.RepairCost,
				PrestigeAwarded:  p.PrestigeAwarded,
				FameAwarded:      p.FameAwarded,
			})
		}
	}
	return rows, nil
}

// BuildCycleCSV renders export rows to CSV with a fixed header.
func BuildCycleCSV(cycleNumber int, rows []ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"cycle", "battle_id", "robot_id", "robot_name",
		"opponent_id", "opponent_name", "result",
		"winnings", "streaming_revenue", "repair_cost",
		"prestige_awarded", "fame_awarded",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(cycleNumber),
			strconv.FormatInt(row.BattleID, 10),
			strconv.FormatInt(row.RobotID, 10),
			row.RobotName,
			strconv.FormatInt(row.OpponentID, 10),
			row.OpponentName,
			row.Result,
			formatAmount(row.Winnings),
			formatAmount(row.StreamingRevenue),
			formatAmount(row.RepairCost),
			formatAmount(row.PrestigeAwarded),
			formatAmount(row.FameAwarded),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
