package auth

import (
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// newAccountID derives a deterministic account id from the email so a
// re-registration before activation lands on the same row. Accounts
// without an email get a random id.
func newAccountID(email string) uuid.UUID {
	if email != "" {
		if id, err := hashid.NewUUID(email); err == nil {
			return id
		}
	}
	return uuid.New()
}
