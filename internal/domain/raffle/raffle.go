package raffle

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvyt/rifa/internal/domain/quota"
	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/id"
)

// Raffle is the sale configuration: how many quotas exist and what each costs.
type Raffle struct {
	id          uint
	sid         string
	name        string
	prize       string
	description string
	imageURL    string
	totalQuotas int
	numberWidth int
	price       vo.Money
	drawDate    *time.Time
	drawMethod  string
	status      Status
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

type NewParams struct {
	Name        string
	Prize       string
	Description string
	ImageURL    string
	TotalQuotas int
	// MinNumberWidth is widened automatically when TotalQuotas needs more digits.
	MinNumberWidth int
	Price          vo.Money
	DrawDate       *time.Time
	DrawMethod     string
}

func NewRaffle(p NewParams) (*Raffle, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, errors.NewValidationError("raffle name is required")
	}
	if p.TotalQuotas < 1 {
		return nil, errors.NewValidationError("total quotas must be at least 1")
	}
	if !p.Price.IsPositive() {
		return nil, errors.NewValidationError("price per quota must be greater than zero")
	}

	sid, err := id.NewRaffleSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate raffle sid: %w", err)
	}

	now := biztime.NowUTC()
	return &Raffle{
		sid:         sid,
		name:        name,
		prize:       strings.TrimSpace(p.Prize),
		description: p.Description,
		imageURL:    p.ImageURL,
		totalQuotas: p.TotalQuotas,
		numberWidth: quota.WidthFor(p.TotalQuotas, p.MinNumberWidth),
		price:       p.Price,
		drawDate:    p.DrawDate,
		drawMethod:  strings.TrimSpace(p.DrawMethod),
		status:      StatusActive,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// UpdateParams carries optional changes; nil fields are left untouched.
type UpdateParams struct {
	Name        *string
	Prize       *string
	Description *string
	ImageURL    *string
	Price       *vo.Money
	DrawDate    *time.Time
	DrawMethod  *string
}

func (p UpdateParams) isEmpty() bool {
	return p.Name == nil && p.Prize == nil && p.Description == nil && p.ImageURL == nil &&
		p.Price == nil && p.DrawDate == nil && p.DrawMethod == nil
}

// Reconfigure applies p. committed is the number of quotas currently pending or sold;
// once any quota is committed the configuration is frozen.
func (r *Raffle) Reconfigure(p UpdateParams, committed int64) error {
	if p.isEmpty() {
		return nil
	}
	if committed > 0 {
		return errors.NewValidationError("raffle configuration cannot change after quotas were reserved or sold",
			fmt.Sprintf("committed=%d", committed))
	}
	if !r.status.IsActive() {
		return errors.NewValidationError("only an active raffle can be reconfigured")
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return errors.NewValidationError("raffle name is required")
		}
		r.name = name
	}
	if p.Price != nil {
		if !p.Price.IsPositive() {
			return errors.NewValidationError("price per quota must be greater than zero")
		}
		r.price = *p.Price
	}
	if p.Prize != nil {
		r.prize = strings.TrimSpace(*p.Prize)
	}
	if p.Description != nil {
		r.description = *p.Description
	}
	if p.ImageURL != nil {
		r.imageURL = *p.ImageURL
	}
	if p.DrawDate != nil {
		d := *p.DrawDate
		r.drawDate = &d
	}
	if p.DrawMethod != nil {
		r.drawMethod = strings.TrimSpace(*p.DrawMethod)
	}

	r.updatedAt = biztime.NowUTC()
	r.version++
	return nil
}

// Complete closes the sale after the draw.
func (r *Raffle) Complete() error {
	if r.status == StatusCompleted {
		return nil
	}
	if r.status != StatusActive {
		return errors.NewValidationError(fmt.Sprintf("cannot complete raffle with status %s", r.status))
	}
	r.status = StatusCompleted
	r.updatedAt = biztime.NowUTC()
	r.version++
	return nil
}

func (r *Raffle) Cancel() error {
	if r.status == StatusCancelled {
		return nil
	}
	if r.status != StatusActive {
		return errors.NewValidationError(fmt.Sprintf("cannot cancel raffle with status %s", r.status))
	}
	r.status = StatusCancelled
	r.updatedAt = biztime.NowUTC()
	r.version++
	return nil
}

// NormalizeNumbers validates raw quota numbers against this raffle's numbering range.
func (r *Raffle) NormalizeNumbers(raw []string) ([]string, error) {
	return quota.NormalizeNumbers(raw, r.numberWidth, r.totalQuotas)
}

// QuotaNumbers returns every quota number of the raffle, "00001".."N".
func (r *Raffle) QuotaNumbers() []string {
	return quota.Numbers(r.totalQuotas, r.numberWidth)
}

// PriceFor computes the charge amount for count quotas.
func (r *Raffle) PriceFor(count int) vo.Money {
	return r.price.Times(count)
}

func (r *Raffle) SetID(id uint) {
	r.id = id
}

func (r *Raffle) ID() uint             { return r.id }
func (r *Raffle) SID() string          { return r.sid }
func (r *Raffle) Name() string         { return r.name }
func (r *Raffle) Prize() string        { return r.prize }
func (r *Raffle) Description() string  { return r.description }
func (r *Raffle) ImageURL() string     { return r.imageURL }
func (r *Raffle) TotalQuotas() int     { return r.totalQuotas }
func (r *Raffle) NumberWidth() int     { return r.numberWidth }
func (r *Raffle) Price() vo.Money      { return r.price }
func (r *Raffle) DrawDate() *time.Time { return r.drawDate }
func (r *Raffle) DrawMethod() string   { return r.drawMethod }
func (r *Raffle) Status() Status       { return r.status }
func (r *Raffle) IsActive() bool       { return r.status.IsActive() }
func (r *Raffle) Version() int         { return r.version }
func (r *Raffle) CreatedAt() time.Time { return r.createdAt }
func (r *Raffle) UpdatedAt() time.Time { return r.updatedAt }

type ReconstructParams struct {
	ID          uint
	SID         string
	Name        string
	Prize       string
	Description string
	ImageURL    string
	TotalQuotas int
	NumberWidth int
	Price       vo.Money
	DrawDate    *time.Time
	DrawMethod  string
	Status      Status
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func ReconstructRaffle(p ReconstructParams) (*Raffle, error) {
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid raffle status: %s", p.Status)
	}
	return &Raffle{
		id:          p.ID,
		sid:         p.SID,
		name:        p.Name,
		prize:       p.Prize,
		description: p.Description,
		imageURL:    p.ImageURL,
		totalQuotas: p.TotalQuotas,
		numberWidth: p.NumberWidth,
		price:       p.Price,
		drawDate:    p.DrawDate,
		drawMethod:  p.DrawMethod,
		status:      p.Status,
		version:     p.Version,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}, nil
}
