package schema

// PrizeTable represents the 'core.prize' table
type PrizeTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	ImageURL    string
	Weight      string
	Stock       string
	IsActive    string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// Prize is the schema definition for core.prize
var Prize = PrizeTable{
	Table:       "core.prize",
	ID:          "id",
	Name:        "name",
	Description: "description",
	ImageURL:    "imageurl",
	Weight:      "weight",
	Stock:       "stock",
	IsActive:    "isactive",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}
