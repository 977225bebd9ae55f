package transaction

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

// IsFinal reports a terminal status. No edge re-enters pending.
func (s Status) IsFinal() bool {
	return s == StatusApproved || s == StatusCancelled || s == StatusExpired
}

// IsClosed reports a terminal status in which the quotas went back to the ledger.
func (s Status) IsClosed() bool {
	return s == StatusCancelled || s == StatusExpired
}

func (s Status) String() string {
	return string(s)
}

// Reason records why a transaction left pending without being paid.
type Reason string

const (
	ReasonUserRequested   Reason = "user_requested"
	ReasonGatewayRejected Reason = "gateway_rejected"
	ReasonExpired         Reason = "expired"
	ReasonAdmin           Reason = "admin"
)

func (r Reason) IsValid() bool {
	switch r {
	case ReasonUserRequested, ReasonGatewayRejected, ReasonExpired, ReasonAdmin:
		return true
	default:
		return false
	}
}

// ClosingStatus maps a reason onto the terminal status it produces.
func (r Reason) ClosingStatus() Status {
	if r == ReasonExpired {
		return StatusExpired
	}
	return StatusCancelled
}

// PaymentMethod is fixed to PIX; kept as a column for reporting.
const PaymentMethodPIX = "pix"
