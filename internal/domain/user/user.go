package user

// User is the identity established after a verified sign-in. Only these three
// claims are kept server-side.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName falls back to the email when the provider sent no name.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
