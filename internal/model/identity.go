package model

// Identity is the resolved caller on whose behalf a request executes.
// It is produced once per request at the HTTP boundary and passed explicitly
// into every store operation; the store never assumes an identity of its own.
type Identity struct {
	UserID   string
	UserName string
}
