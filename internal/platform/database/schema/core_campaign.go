package schema

// CampaignTable represents the 'core.campaign' table
type CampaignTable struct {
	Table         string
	ID            string
	Name          string
	Slug          string
	Description   string
	StartsAt      string
	EndsAt        string
	AmountPerSpin string
	IsActive      string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// Campaign is the schema definition for core.campaign
var Campaign = CampaignTable{
	Table:         "core.campaign",
	ID:            "id",
	Name:          "name",
	Slug:          "slug",
	Description:   "description",
	StartsAt:      "startsat",
	EndsAt:        "endsat",
	AmountPerSpin: "amountperspin",
	IsActive:      "isactive",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}
