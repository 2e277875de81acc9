package schema

// PaymentTable represents the 'core.payment' table
type PaymentTable struct {
	Table       string
	ID          string
	UserID      string
	CampaignID  string
	Amount      string
	Method      string
	Status      string
	SpinsEarned string
	CreatedAt   string
	UpdatedAt   string
}

// Payment is the schema definition for core.payment
var Payment = PaymentTable{
	Table:       "core.payment",
	ID:          "id",
	UserID:      "userid",
	CampaignID:  "campaignid",
	Amount:      "amount",
	Method:      "method",
	Status:      "status",
	SpinsEarned: "spinsearned",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
