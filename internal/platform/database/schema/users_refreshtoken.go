package schema

// UserRefreshTokenTable represents the 'users.refreshtoken' table
type UserRefreshTokenTable struct {
	Table     string
	MemberID  string
	Token     string
	ExpiresAt string
	CreatedAt string
	UpdatedAt string
}

// UserRefreshToken is the schema definition for users.refreshtoken.
//
// MemberID is the PRIMARY KEY: the table holds at most one row per member,
// and replacement happens through an atomic upsert on that key.
var UserRefreshToken = UserRefreshTokenTable{
	Table:     "users.refreshtoken",
	MemberID:  "memberid",
	Token:     "token",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserRefreshTokenTable) Columns() []string {
	return []string{t.MemberID, t.Token, t.ExpiresAt, t.CreatedAt, t.UpdatedAt}
}
