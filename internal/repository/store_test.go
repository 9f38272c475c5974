package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC, id", orderClause(""))
	assert.Equal(t, "starts_at desc, id", orderClause("starts_at desc"))
	assert.Equal(t, "record_date desc, id", orderClause("record_date desc"))
}
