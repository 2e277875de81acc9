package schema

// SpinTable represents the 'core.spin' table
type SpinTable struct {
	Table      string
	ID         string
	UserID     string
	CampaignID string
	PrizeID    string
	IsWin      string
	CreatedAt  string
}

// Spin is the schema definition for core.spin
var Spin = SpinTable{
	Table:      "core.spin",
	ID:         "id",
	UserID:     "userid",
	CampaignID: "campaignid",
	PrizeID:    "prizeid",
	IsWin:      "iswin",
	CreatedAt:  "createdat",
}
