package core

// UserDetails carries display attributes of a user. The resolver never reads
// them, they exist for listings and notifications only.
type UserDetails struct {
	UserID      string
	DisplayName string
	Email       string
	Phone       string
}

type UserDetailsDB interface {
	PutUserDetails(details UserDetails) error // upsert
	GetUserDetails(userID string) (UserDetails, error)
	GetAllUserDetails(limit, offset int) ([]UserDetails, error)
	Writeable() bool
}
