package domain

// User is the authenticated caller as seen by the backend.
// Identity is established by the auth provider; the backend only trusts Id.
type User struct {
	Id UserId
}
