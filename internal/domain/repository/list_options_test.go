package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithFilterDoesNotMutateOriginal(t *testing.T) {
	base := ListOptions{OrderBy: "created_at desc"}

	filtered := base.WithFilter("status", "pending")
	assert.Nil(t, base.Filters)
	assert.Equal(t, "pending", filtered.Filters["status"])

	narrowed := filtered.WithFilter("doctor_id", "abc")
	assert.Len(t, filtered.Filters, 1)
	assert.Len(t, narrowed.Filters, 2)
	assert.Equal(t, "created_at desc", narrowed.OrderBy)
}
