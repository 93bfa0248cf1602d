package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	checkoutapp "github.com/showring/backend/internal/application/checkout"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{"INVALID_INPUT", http.StatusBadRequest},
		{"EMPTY_CLASS_SELECTION", http.StatusBadRequest},
		{"DUPLICATE_ENTRY", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"SHOW_NOT_FOUND", http.StatusNotFound},
		{"TOKEN_NOT_FOUND", http.StatusNotFound},
		{"FORBIDDEN", http.StatusForbidden},
		{"DOG_NOT_OWNED", http.StatusForbidden},
		{"ALREADY_RESPONDED", http.StatusConflict},
		{"SUNDRY_CAP_EXCEEDED", http.StatusConflict},
		{"ENTRIES_NOT_OPEN", http.StatusUnprocessableEntity},
		{"TOKEN_EXPIRED", http.StatusGone},
		{"PAYMENT_GATEWAY_UNAVAILABLE", http.StatusBadGateway},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOME_NEW_RULE", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		data, err := json.Marshal(NewSuccessResponse(map[string]int{"count": 3}, "req-1"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{"count":3},"request_id":"req-1"}`, string(data))
	})

	t.Run("error carries code and message", func(t *testing.T) {
		data, err := json.Marshal(NewErrorResponse("DUPLICATE_ENTRY", "already entered", "req-2"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":{"code":"DUPLICATE_ENTRY","message":"already entered"},"request_id":"req-2"}`, string(data))
	})

	t.Run("validation lists fields", func(t *testing.T) {
		resp := NewValidationErrorResponse("bad", "", []ValidationDetail{{Field: "class_ids", Message: "This field is required"}})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 1)
	})
}

func TestCheckoutRequest_ToCommand(t *testing.T) {
	showID, exhibitorID := uuid.New(), uuid.New()
	dogID, classID, sundryID := uuid.New(), uuid.New(), uuid.New()
	dog := dogID.String()

	req := CheckoutRequest{
		Entries: []EntryRequest{
			{DogID: &dog, ClassIDs: []string{classID.String()}},
			{
				EntryType: string(entry.TypeJuniorHandler),
				DogID:     &dog,
				ClassIDs:  []string{classID.String()},
				JuniorHandler: &JuniorHandlerRequest{
					HandlerName: "Ella",
					DateOfBirth: "2012-05-01",
				},
			},
		},
		Sundries: []SundryRequest{{SundryItemID: sundryID.String(), Quantity: 2}},
	}

	cmd, err := req.ToCommand(exhibitorID, showID)
	require.NoError(t, err)
	assert.Equal(t, showID, cmd.ShowID)
	assert.Equal(t, exhibitorID, cmd.ExhibitorID)
	require.Len(t, cmd.Entries, 2)
	assert.Equal(t, entry.TypeStandard, cmd.Entries[0].EntryType)
	assert.Equal(t, []uuid.UUID{classID}, cmd.Entries[0].ClassIDs)
	require.NotNil(t, cmd.Entries[1].JuniorHandler)
	assert.Equal(t, time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC), cmd.Entries[1].JuniorHandler.DateOfBirth)
	assert.Equal(t, []checkoutapp.SundryRequest{{SundryItemID: sundryID, Quantity: 2}}, cmd.Sundries)

	bad := "not-a-uuid"
	req.Entries[0].DogID = &bad
	_, err = req.ToCommand(exhibitorID, showID)
	assert.ErrorContains(t, err, "entries[0].dog_id")
}

func TestNewCheckoutView_FormatsTotal(t *testing.T) {
	view := NewCheckoutView(&checkoutapp.CheckoutResult{TotalAmount: 2350})
	data, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	total := decoded["total"].(map[string]any)
	assert.Equal(t, "£23.50", total["display"])
	assert.EqualValues(t, 2350, decoded["total_amount"])

	assert.Nil(t, NewCheckoutView(nil))
}
