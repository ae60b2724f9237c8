package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/types"
)

// Customer is a registered customer record, keyed by their identification
// number. A record may be partially filled while registration is still in
// progress; later upserts replace all fields (last write wins).
type Customer struct {
	ID        types.CustomerID `firestore:"id" json:"id"`
	FullName  string           `firestore:"full_name" json:"full_name"`
	Phone     string           `firestore:"phone" json:"phone"`
	Email     string           `firestore:"email" json:"email"`
	UpdatedAt time.Time        `firestore:"updated_at" json:"updated_at"`
}

// NewCustomer creates a customer record. Fields other than the identifier
// may be empty while registration is incomplete.
func NewCustomer(id types.CustomerID, fullName, phone, email string) *Customer {
	return &Customer{
		ID:        id,
		FullName:  fullName,
		Phone:     phone,
		Email:     email,
		UpdatedAt: time.Now().UTC(),
	}
}

// Validate checks the record is storable: the identifier must be
// well-formed, and any non-empty field must pass its format rule.
func (c *Customer) Validate() error {
	if !ValidIdentifier(c.ID.String()) {
		return goerr.New("invalid customer identifier", goerr.V("id", c.ID))
	}
	if c.FullName != "" && !ValidName(c.FullName) {
		return goerr.New("invalid customer name", goerr.V("id", c.ID))
	}
	if c.Phone != "" && !ValidPhone(c.Phone) {
		return goerr.New("invalid customer phone", goerr.V("id", c.ID))
	}
	if c.Email != "" && !ValidEmail(c.Email) {
		return goerr.New("invalid customer email", goerr.V("id", c.ID))
	}
	return nil
}

// Complete reports whether all registration fields are present and valid.
func (c *Customer) Complete() bool {
	return ValidIdentifier(c.ID.String()) &&
		ValidName(c.FullName) &&
		ValidPhone(c.Phone) &&
		ValidEmail(c.Email)
}
