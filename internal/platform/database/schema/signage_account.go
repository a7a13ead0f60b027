package schema

// SignageAccountTable represents the 'signage.account' table
type SignageAccountTable struct {
	Table     string
	ID        string
	Email     string
	Name      string
	Password  string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// SignageAccount is the schema definition for signage.account
var SignageAccount = SignageAccountTable{
	Table:     "signage.account",
	ID:        "id",
	Email:     "email",
	Name:      "name",
	Password:  "passwordhash",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t SignageAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Name, t.Password, t.Role, t.CreatedAt, t.UpdatedAt,
	}
}
