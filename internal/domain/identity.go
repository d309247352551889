package domain

// Identity is the read-only {token, user} pair sourced from the auth
// subsystem. Token is forwarded as-is to the booking backend.
type Identity struct {
	Token  string
	UserID string
	Email  string
}

func (i Identity) Valid() bool {
	return i.Token != "" && i.UserID != ""
}
