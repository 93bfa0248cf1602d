package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	judgingapp "github.com/showring/backend/internal/application/judging"
	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/infrastructure/auth"
	"github.com/showring/backend/internal/interfaces/http/dto"
	"github.com/showring/backend/internal/interfaces/http/templates"
	"github.com/showring/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJudgingService struct {
	mock.Mock
}

func (m *mockJudgingService) SendOffer(ctx context.Context, cmd judgingapp.SendOfferCommand) (*judgingapp.ContractResponse, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*judgingapp.ContractResponse)
	return res, args.Error(1)
}

func (m *mockJudgingService) Confirm(ctx context.Context, cmd judgingapp.ConfirmCommand) (*judgingapp.ContractResponse, error) {
	args := m.Called(ctx, cmd)
	res, _ := args.Get(0).(*judgingapp.ContractResponse)
	return res, args.Error(1)
}

func (m *mockJudgingService) Get(ctx context.Context, orgID, contractID uuid.UUID) (*judgingapp.ContractResponse, error) {
	args := m.Called(ctx, orgID, contractID)
	res, _ := args.Get(0).(*judgingapp.ContractResponse)
	return res, args.Error(1)
}

func (m *mockJudgingService) ListByShow(ctx context.Context, orgID, showID uuid.UUID) ([]judgingapp.ContractResponse, error) {
	args := m.Called(ctx, orgID, showID)
	res, _ := args.Get(0).([]judgingapp.ContractResponse)
	return res, args.Error(1)
}

func (m *mockJudgingService) View(ctx context.Context, rawToken string) (*judgingapp.OfferView, error) {
	args := m.Called(ctx, rawToken)
	res, _ := args.Get(0).(*judgingapp.OfferView)
	return res, args.Error(1)
}

func (m *mockJudgingService) Respond(ctx context.Context, rawToken, rawAction string) (*judgingapp.OfferView, error) {
	args := m.Called(ctx, rawToken, rawAction)
	res, _ := args.Get(0).(*judgingapp.OfferView)
	return res, args.Error(1)
}

func judgingEngine(id auth.Identity, svc JudgingService, rec OperationRecorder) http.Handler {
	h := NewJudgingHandler(svc, rec, nil)
	r := newEngine(id)
	r.POST("/shows/:show_id/judge-contracts", h.SendOffer)
	r.GET("/shows/:show_id/judge-contracts", h.ListByShow)
	r.GET("/judge-contracts/:contract_id", h.Get)
	r.POST("/judge-contracts/:contract_id/confirm", h.Confirm)
	return r
}

func TestJudgingHandler_SendOffer(t *testing.T) {
	showID, judgeID := uuid.New(), uuid.New()
	path := "/shows/" + showID.String() + "/judge-contracts"
	body := map[string]any{
		"judge_id":    judgeID.String(),
		"judge_name":  "Mrs A Judge",
		"judge_email": "judge@example.org",
		"breeds":      []string{"Whippet", "Greyhound"},
		"date":        "2026-06-06",
	}

	t.Run("sent", func(t *testing.T) {
		svc := new(mockJudgingService)
		rec := &fakeRecorder{}
		svc.On("SendOffer", mock.Anything, mock.MatchedBy(func(cmd judgingapp.SendOfferCommand) bool {
			return cmd.ActorOrgID == secretary.OrganisationID && cmd.ShowID == showID &&
				cmd.JudgeID == judgeID && len(cmd.Appointment.Breeds) == 2
		})).Return(&judgingapp.ContractResponse{ID: uuid.New(), Stage: judging.StageOfferSent}, nil)

		w := testutil.PerformRequest(t, judgingEngine(secretary, svc, rec), http.MethodPost, path, body, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, judging.StageOfferSent, testutil.DecodeData[judgingapp.ContractResponse](t, w).Stage)
		assert.Equal(t, []string{"judge_offer_send"}, rec.operations())
	})

	t.Run("live contract exists", func(t *testing.T) {
		svc := new(mockJudgingService)
		svc.On("SendOffer", mock.Anything, mock.Anything).Return(nil, judging.ErrContractExists)
		w := testutil.PerformRequest(t, judgingEngine(secretary, svc, nil), http.MethodPost, path, body, nil)
		testutil.AssertErrorResponse(t, w, http.StatusConflict, "CONTRACT_EXISTS")
	})

	t.Run("bad email", func(t *testing.T) {
		svc := new(mockJudgingService)
		bad := map[string]any{"judge_id": judgeID.String(), "judge_name": "X", "judge_email": "nope", "breeds": []string{"Whippet"}}
		w := testutil.PerformRequest(t, judgingEngine(secretary, svc, nil), http.MethodPost, path, bad, nil)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		assert.Contains(t, w.Body.String(), "judge_email")
	})

	t.Run("exhibitors cannot send offers", func(t *testing.T) {
		svc := new(mockJudgingService)
		w := testutil.PerformRequest(t, judgingEngine(exhibitor, svc, nil), http.MethodPost, path, body, nil)
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
	})
}

func TestJudgingHandler_Confirm(t *testing.T) {
	contractID := uuid.New()
	path := "/judge-contracts/" + contractID.String() + "/confirm"
	cmd := judgingapp.ConfirmCommand{ActorOrgID: secretary.OrganisationID, ContractID: contractID}

	svc := new(mockJudgingService)
	svc.On("Confirm", mock.Anything, cmd).Return(&judgingapp.ContractResponse{ID: contractID, Stage: judging.StageConfirmed}, nil).Once()
	svc.On("Confirm", mock.Anything, cmd).Return(nil, judging.ErrInvalidTransition).Once()
	r := judgingEngine(secretary, svc, nil)

	w := testutil.PerformRequest(t, r, http.MethodPost, path, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, judging.StageConfirmed, testutil.DecodeData[judgingapp.ContractResponse](t, w).Stage)

	w = testutil.PerformRequest(t, r, http.MethodPost, path, nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "INVALID_TRANSITION")
}

func TestJudgingHandler_ListAndGet(t *testing.T) {
	showID, contractID := uuid.New(), uuid.New()
	svc := new(mockJudgingService)
	svc.On("ListByShow", mock.Anything, secretary.OrganisationID, showID).Return(nil, nil)
	svc.On("Get", mock.Anything, secretary.OrganisationID, contractID).Return(nil, judging.ErrContractNotFound)
	r := judgingEngine(secretary, svc, nil)

	w := testutil.PerformRequest(t, r, http.MethodGet, "/shows/"+showID.String()+"/judge-contracts", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(testutil.DecodeResponse(t, w).Data))

	w = testutil.PerformRequest(t, r, http.MethodGet, "/judge-contracts/"+contractID.String(), nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "CONTRACT_NOT_FOUND")
}

func offerEngine(t *testing.T, svc JudgingService, rec OperationRecorder) http.Handler {
	t.Helper()
	pages, err := templates.Load()
	require.NoError(t, err)
	h := NewOfferPageHandler(svc, pages, rec, nil)
	r := newEngine(auth.Identity{})
	r.GET("/judge-contract/:token", h.View)
	r.POST("/judge-contract/:token", h.Respond)
	return r
}

func openOffer(stage judging.Stage) *judgingapp.OfferView {
	return &judgingapp.OfferView{
		ContractID:  uuid.New(),
		ShowName:    "Midland Whippet Club Open Show",
		ShowDate:    time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
		JudgeName:   "Mrs A Judge",
		Appointment: judging.Appointment{Breeds: []string{"Whippet"}, Notes: "Lunch provided <b>"},
		Stage:       stage,
		ExpiresAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CanRespond:  stage == judging.StageOfferSent,
	}
}

func postForm(t *testing.T, h http.Handler, path, action string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"action": {action}}
	return testutil.PerformRequest(t, h, http.MethodPost, path, strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
}

func TestOfferPageHandler_View(t *testing.T) {
	t.Run("open offer with preselected action", func(t *testing.T) {
		svc := new(mockJudgingService)
		svc.On("View", mock.Anything, "tok").Return(openOffer(judging.StageOfferSent), nil)

		w := testutil.PerformRequest(t, offerEngine(t, svc, nil), http.MethodGet, "/judge-contract/tok?action=accept", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Contains(t, body, "Midland Whippet Club Open Show")
		assert.Contains(t, body, "Saturday 6 June 2026")
		assert.Contains(t, body, `class="accept selected"`)
		assert.Contains(t, body, "Lunch provided &lt;b&gt;")
		svc.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("answered offer shows its outcome", func(t *testing.T) {
		svc := new(mockJudgingService)
		svc.On("View", mock.Anything, "tok").Return(openOffer(judging.StageOfferAccepted), nil)

		w := testutil.PerformRequest(t, offerEngine(t, svc, nil), http.MethodGet, "/judge-contract/tok", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Thank you for accepting")
		assert.NotContains(t, w.Body.String(), "<form")
	})

	tests := []struct {
		name    string
		err     error
		status  int
		heading string
	}{
		{"unknown token", judging.ErrTokenNotFound, http.StatusNotFound, "Offer not found"},
		{"expired token", judging.ErrTokenExpired, http.StatusGone, "This offer link has expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockJudgingService)
			svc.On("View", mock.Anything, "tok").Return(nil, tt.err)

			w := testutil.PerformRequest(t, offerEngine(t, svc, nil), http.MethodGet, "/judge-contract/tok", nil, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.heading)
		})
	}
}

func TestOfferPageHandler_Respond(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		svc := new(mockJudgingService)
		rec := &fakeRecorder{}
		svc.On("Respond", mock.Anything, "tok", "accept").Return(openOffer(judging.StageOfferAccepted), nil)

		w := postForm(t, offerEngine(t, svc, rec), "/judge-contract/tok", "accept")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Thank you for accepting")
		assert.Equal(t, []string{"judge_offer_respond"}, rec.operations())
	})

	t.Run("decline", func(t *testing.T) {
		svc := new(mockJudgingService)
		svc.On("Respond", mock.Anything, "tok", "decline").Return(openOffer(judging.StageDeclined), nil)

		w := postForm(t, offerEngine(t, svc, nil), "/judge-contract/tok", "decline")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Offer declined")
	})

	t.Run("second answer", func(t *testing.T) {
		svc := new(mockJudgingService)
		svc.On("Respond", mock.Anything, "tok", "decline").Return(nil, judging.ErrAlreadyResponded)

		w := postForm(t, offerEngine(t, svc, nil), "/judge-contract/tok", "decline")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Already responded")
	})

	t.Run("unknown action", func(t *testing.T) {
		svc := new(mockJudgingService)
		svc.On("Respond", mock.Anything, "tok", "maybe").Return(nil, judging.ErrInvalidAction)

		w := postForm(t, offerEngine(t, svc, nil), "/judge-contract/tok", "maybe")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Please choose accept or decline")
	})

	t.Run("unexpected failure", func(t *testing.T) {
		svc := new(mockJudgingService)
		svc.On("Respond", mock.Anything, "tok", "accept").Return(nil, context.DeadlineExceeded)

		w := postForm(t, offerEngine(t, svc, nil), "/judge-contract/tok", "accept")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Something went wrong")
		assert.NotContains(t, w.Body.String(), "deadline")
	})
}
