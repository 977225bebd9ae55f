package pixgateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMap_Resolve(t *testing.T) {
	m := StatusMap{
		"approved":  StatusApproved,
		"cancelled": StatusCancelled,
	}

	assert.Equal(t, StatusApproved, m.Resolve("APPROVED"))
	assert.Equal(t, StatusCancelled, m.Resolve(" cancelled "))
	assert.Equal(t, StatusPending, m.Resolve("in_mediation"))
	assert.Equal(t, StatusPending, m.Resolve(""))
}
