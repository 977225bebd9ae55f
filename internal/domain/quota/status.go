package quota

// Status is the lifecycle position of a single quota: available -> pending -> sold | available.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
)

var validTransitions = map[Status][]Status{
	StatusAvailable: {StatusPending},
	StatusPending:   {StatusSold, StatusAvailable},
	StatusSold:      {},
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether the ledger may move a quota from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus returns the status for a query value; empty means "any".
func ParseStatus(s string) (*Status, bool) {
	if s == "" {
		return nil, true
	}
	st := Status(s)
	if !st.IsValid() {
		return nil, false
	}
	return &st, true
}
