package domain

import "time"

// AccessToken is an opaque credential minted once at reservation creation.
// It is never mutated; ValidTo equals the reservation end timestamp.
type AccessToken struct {
	ID            int64
	ReservationID int64
	Token         string
	ValidTo       time.Time

	CreatedAt time.Time
}

// IsValid reports whether the token is still usable at the given moment
func (t *AccessToken) IsValid(now time.Time) bool {
	return now.Before(t.ValidTo)
}
