package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
	Role        string
	Balance     string
	IsActive    string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	PhoneNumber: "phonenumber",
	Password:    "passwordhash",
	FirstName:   "firstname",
	LastName:    "lastname",
	Role:        "role",
	Balance:     "balance",
	IsActive:    "isactive",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}
