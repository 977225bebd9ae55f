package quota

import "time"

// ChangeEvent announces that some quotas of a raffle moved to Status.
type ChangeEvent struct {
	RaffleID       uint      `json:"raffle_id"`
	TransactionSID string    `json:"transaction_sid,omitempty"`
	Numbers        []string  `json:"numbers"`
	Status         Status    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}
