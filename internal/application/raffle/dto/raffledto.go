package dto

import (
	"time"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
)

type RaffleDTO struct {
	SID             string     `json:"id"`
	Name            string     `json:"name"`
	Prize           string     `json:"prize,omitempty"`
	Description     string     `json:"description,omitempty"`
	DescriptionHTML string     `json:"description_html,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	TotalQuotas     int        `json:"total_quotas"`
	NumberWidth     int        `json:"number_width"`
	Price           string     `json:"price"`
	PriceDisplay    string     `json:"price_display"`
	Currency        string     `json:"currency"`
	DrawDate        *time.Time `json:"draw_date,omitempty"`
	DrawMethod      string     `json:"draw_method,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ToRaffleDTO(r *raffle.Raffle, descriptionHTML string) *RaffleDTO {
	return &RaffleDTO{
		SID:             r.SID(),
		Name:            r.Name(),
		Prize:           r.Prize(),
		Description:     r.Description(),
		DescriptionHTML: descriptionHTML,
		ImageURL:        r.ImageURL(),
		TotalQuotas:     r.TotalQuotas(),
		NumberWidth:     r.NumberWidth(),
		Price:           r.Price().Amount().StringFixed(2),
		PriceDisplay:    r.Price().Display(),
		Currency:        r.Price().Currency(),
		DrawDate:        r.DrawDate(),
		DrawMethod:      r.DrawMethod(),
		Status:          r.Status().String(),
		CreatedAt:       r.CreatedAt(),
	}
}

// StatsDTO is cached as JSON, so every field is exported and tagged.
type StatsDTO struct {
	RaffleSID   string    `json:"raffle_id"`
	Total       int64     `json:"total"`
	Available   int64     `json:"available"`
	Pending     int64     `json:"pending"`
	Sold        int64     `json:"sold"`
	Revenue     string    `json:"revenue"`
	PercentSold float64   `json:"percent_sold"`
	ComputedAt  time.Time `json:"computed_at"`
}

// QuotaDTO is the public view of a quota; ownership stays private.
type QuotaDTO struct {
	Number string `json:"number"`
	Status string `json:"status"`
}

func ToQuotaDTOs(quotas []*quota.Quota) []QuotaDTO {
	out := make([]QuotaDTO, len(quotas))
	for i, q := range quotas {
		out[i] = QuotaDTO{Number: q.Number(), Status: q.Status().String()}
	}
	return out
}

type RandomPickDTO struct {
	Requested int      `json:"requested"`
	Numbers   []string `json:"numbers"`
	// Short is true when fewer quotas were available than requested.
	Short bool `json:"short"`
}

// QuotaChangeDTO is pushed to buyers watching the quota grid.
type QuotaChangeDTO struct {
	RaffleSID  string    `json:"raffle_id"`
	Numbers    []string  `json:"numbers"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
