package core

// Account is a registered user. The email is the primary key; events live
// embedded in the account document, so deleting an account removes them
// with it.
type Account struct {
	Email        string
	PasswordHash string
	Firstname    string
	Lastname     string
	Events       []Event
}

// WithoutHash returns a copy of the account with the password hash blanked,
// for handing to layers that must not see it.
func (a Account) WithoutHash() Account {
	a.PasswordHash = ""
	return a
}
