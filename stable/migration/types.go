package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyBattle is one battle document in the Mongo archive kept by the old
// prototype server.
type LegacyBattle struct {
	ID           primitive.ObjectID  `bson:"_id"`
	BattleID     int64               `bson:"battleId"`
	BattleType   string              `bson:"battleType"`
	WinnerID     int64               `bson:"winnerId"`
	Participants []LegacyParticipant `bson:"participants"`
	CreatedAt    time.Time           `bson:"createdAt"`
}

type LegacyParticipant struct {
	RobotID          int64   `bson:"robotId"`
	UserID           int64   `bson:"userId"`
	OpponentRobotID  int64   `bson:"opponentRobotId"`
	Result           string  `bson:"result"`
	Winnings         float64 `bson:"winnings"`
	StreamingRevenue float64 `bson:"streamingRevenue"`
	RepairCost       float64 `bson:"repairCost"`
	PrestigeAwarded  float64 `bson:"prestigeAwarded"`
	FameAwarded      float64 `bson:"fameAwarded"`
}

// MigrationStats tracks import progress for the final report.
type MigrationStats struct {
	StartTime         time.Time
	BattlesRead       int
	BattlesImported   int
	BattlesSkipped    int
	ParticipantsRows  int
	EventsWritten     int
	FirstBattleAt     time.Time
	LastBattleAt      time.Time
	EstimatedCycles   int
}
