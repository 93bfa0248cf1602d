package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	checklistapp "github.com/showring/backend/internal/application/checklist"
	"github.com/showring/backend/internal/domain/show"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/showring/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChecklistService struct {
	mock.Mock
}

func (m *mockChecklistService) IsComplete(ctx context.Context, showID uuid.UUID, entityType string, entityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, showID, entityType, entityID)
	return args.Bool(0), args.Error(1)
}

func (m *mockChecklistService) AddItem(ctx context.Context, cmd checklistapp.AddItemCommand) (*checklistapp.ItemResponse, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*checklistapp.ItemResponse)
	return res, args.Error(1)
}

func checklistEngine(svc ChecklistService, rec OperationRecorder) http.Handler {
	h := NewChecklistHandler(svc, rec, nil)
	r := newEngine(secretary)
	r.GET("/shows/:show_id/checklist/auto-detect", h.AutoDetect)
	r.POST("/shows/:show_id/checklist", h.AddItem)
	return r
}

func TestChecklistHandler_AutoDetect(t *testing.T) {
	showID, contractID := uuid.New(), uuid.New()
	base := "/shows/" + showID.String() + "/checklist/auto-detect"

	svc := new(mockChecklistService)
	svc.On("IsComplete", mock.Anything, showID, "judge_contract", contractID).Return(true, nil)

	w := testutil.PerformRequest(t, checklistEngine(svc, nil), http.MethodGet,
		base+"?entity_type=judge_contract&entity_id="+contractID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := testutil.DecodeData[dto.AutoDetectResponse](t, w)
	assert.True(t, res.Completed)

	w = testutil.PerformRequest(t, checklistEngine(svc, nil), http.MethodGet, base+"?entity_type=judge_contract", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "IsComplete", 1)
}

func TestChecklistHandler_AddItem(t *testing.T) {
	showID, contractID := uuid.New(), uuid.New()
	path := "/shows/" + showID.String() + "/checklist"

	t.Run("created", func(t *testing.T) {
		svc := new(mockChecklistService)
		rec := &fakeRecorder{}
		svc.On("AddItem", mock.Anything, mock.MatchedBy(func(cmd checklistapp.AddItemCommand) bool {
			return cmd.ActorOrgID == secretary.OrganisationID && cmd.ShowID == showID &&
				cmd.EntityID != nil && *cmd.EntityID == contractID && cmd.AutoDetectKey == "judge_confirmed"
		})).Return(&checklistapp.ItemResponse{ID: uuid.New(), ShowID: showID, Title: "Confirm judge"}, nil)

		w := testutil.PerformRequest(t, checklistEngine(svc, rec), http.MethodPost, path, map[string]any{
			"title":           "Confirm judge",
			"entity_type":     "judge_contract",
			"entity_id":       contractID.String(),
			"auto_detect_key": "judge_confirmed",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Confirm judge", testutil.DecodeData[checklistapp.ItemResponse](t, w).Title)
		assert.Equal(t, []string{"checklist_add_item"}, rec.operations())
	})

	t.Run("title required", func(t *testing.T) {
		svc := new(mockChecklistService)
		w := testutil.PerformRequest(t, checklistEngine(svc, nil), http.MethodPost, path, map[string]any{}, nil)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("unknown show", func(t *testing.T) {
		svc := new(mockChecklistService)
		svc.On("AddItem", mock.Anything, mock.Anything).Return(nil, show.ErrShowNotFound)
		w := testutil.PerformRequest(t, checklistEngine(svc, nil), http.MethodPost, path, map[string]any{"title": "Book venue"}, nil)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "SHOW_NOT_FOUND")
	})
}
