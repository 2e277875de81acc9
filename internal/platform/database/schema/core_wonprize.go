package schema

// WonPrizeTable represents the 'core.wonprize' table
type WonPrizeTable struct {
	Table       string
	ID          string
	UserID      string
	PrizeID     string
	SpinID      string
	Status      string
	ClaimedAt   string
	DeliveredAt string
	CreatedAt   string
}

// WonPrize is the schema definition for core.wonprize
var WonPrize = WonPrizeTable{
	Table:       "core.wonprize",
	ID:          "id",
	UserID:      "userid",
	PrizeID:     "prizeid",
	SpinID:      "spinid",
	Status:      "status",
	ClaimedAt:   "claimedat",
	DeliveredAt: "deliveredat",
	CreatedAt:   "createdat",
}
