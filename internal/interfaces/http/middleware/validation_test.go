package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUUIDList(t *testing.T) {
	SetupValidator()
	a, b := uuid.NewString(), uuid.NewString()

	tests := []struct {
		name  string
		ids   []string
		valid bool
	}{
		{name: "distinct ids", ids: []string{a, b}, valid: true},
		{name: "empty list", ids: nil, valid: false},
		{name: "duplicate", ids: []string{a, a}, valid: false},
		{name: "malformed", ids: []string{a, "nope"}, valid: false},
		{name: "nil uuid", ids: []string{uuid.Nil.String()}, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(dto.AmendClassesRequest{ClassIDs: tt.ids})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			details := ValidationDetails(err)
			require.Len(t, details, 1)
			assert.Equal(t, "class_ids", details[0].Field)
		})
	}
}

func TestValidationDetails_NestedPath(t *testing.T) {
	SetupValidator()
	req := dto.CheckoutRequest{
		Entries: []dto.EntryRequest{{ClassIDs: []string{uuid.NewString()}, EntryType: "bogus"}},
	}

	err := binding.Validator.ValidateStruct(req)
	require.Error(t, err)
	details := ValidationDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "entries[0].entry_type", details[0].Field)
	assert.Equal(t, "Must be one of: standard junior_handler", details[0].Message)

	assert.Nil(t, ValidationDetails(assert.AnError))
}
