package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	meta := NewMeta(20, 0, 45)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 3, meta.TotalPages)

	meta = NewMeta(20, 40, 45)
	assert.Equal(t, 3, meta.Page)

	meta = NewMeta(10, 0, 0)
	assert.Equal(t, 0, meta.TotalPages)

	// A zero limit must not divide by zero.
	meta = NewMeta(0, 0, 5)
	assert.Equal(t, 1, meta.Page)
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "Appointment not found")

	assert.Equal(t, 404, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Appointment not found", resp.Message)
}
