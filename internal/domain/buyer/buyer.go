package buyer

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/id"
	"github.com/samvyt/rifa/internal/shared/utils"
)

// Buyer is identified by email; re-submitting the same email updates contact details.
type Buyer struct {
	id        uint
	sid       string
	name      string
	email     string
	phone     string
	document  string
	createdAt time.Time
	updatedAt time.Time
}

// NormalizeEmail lower-cases and trims an address for use as the natural key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewBuyer(name, email, phone, document string) (*Buyer, error) {
	b := &Buyer{}
	if err := b.apply(name, email, phone, document); err != nil {
		return nil, err
	}

	sid, err := id.NewBuyerSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate buyer sid: %w", err)
	}
	now := biztime.NowUTC()
	b.sid = sid
	b.createdAt = now
	b.updatedAt = now
	return b, nil
}

// UpdateContact refreshes name, phone and document for a returning buyer.
// An empty document keeps the stored one.
func (b *Buyer) UpdateContact(name, phone, document string) error {
	if document == "" {
		document = b.document
	}
	if err := b.apply(name, b.email, phone, document); err != nil {
		return err
	}
	b.updatedAt = biztime.NowUTC()
	return nil
}

func (b *Buyer) apply(name, email, phone, document string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewValidationError("buyer name is required")
	}
	email = NormalizeEmail(email)
	if email == "" {
		return errors.NewValidationError("buyer email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return errors.NewValidationError("buyer email is malformed", email)
	}

	b.name = name
	b.email = email
	b.phone = utils.DigitsOnly(phone, true)
	b.document = utils.DigitsOnly(document, false)
	return nil
}

func (b *Buyer) SetID(id uint) {
	b.id = id
}

func (b *Buyer) ID() uint             { return b.id }
func (b *Buyer) SID() string          { return b.sid }
func (b *Buyer) Name() string         { return b.name }
func (b *Buyer) Email() string        { return b.email }
func (b *Buyer) Phone() string        { return b.phone }
func (b *Buyer) Document() string     { return b.document }
func (b *Buyer) CreatedAt() time.Time { return b.createdAt }
func (b *Buyer) UpdatedAt() time.Time { return b.updatedAt }

func ReconstructBuyer(id uint, sid, name, email, phone, document string, createdAt, updatedAt time.Time) *Buyer {
	return &Buyer{
		id:        id,
		sid:       sid,
		name:      name,
		email:     email,
		phone:     phone,
		document:  document,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}
