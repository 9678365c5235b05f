package schema

// UserMemberTable represents the 'users.member' table
type UserMemberTable struct {
	Table        string
	ID           string
	Email        string
	DisplayName  string
	BirthDate    string
	Gender       string
	Phone        string
	RegisterDate string
	RegisterIP   string
	UpdateDate   string
	UpdateIP     string
	CreatedAt    string
	UpdatedAt    string
}

// UserMember is the schema definition for users.member
var UserMember = UserMemberTable{
	Table:        "users.member",
	ID:           "id",
	Email:        "email",
	DisplayName:  "displayname",
	BirthDate:    "birthdate",
	Gender:       "gender",
	Phone:        "phone",
	RegisterDate: "registerdate",
	RegisterIP:   "registerip",
	UpdateDate:   "updatedate",
	UpdateIP:     "updateip",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserMemberTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.DisplayName, t.BirthDate, t.Gender, t.Phone,
		t.RegisterDate, t.RegisterIP, t.UpdateDate, t.UpdateIP,
		t.CreatedAt, t.UpdatedAt,
	}
}
