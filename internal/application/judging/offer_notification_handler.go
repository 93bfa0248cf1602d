package judging

import (
	"context"
	"fmt"
	"strings"

	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"go.uber.org/zap"
)

// OfferNotificationHandler emails the judge the offer link and tells the
// show secretary when the judge answers.
type OfferNotificationHandler struct {
	shows         show.Repository
	notifier      shared.Notifier
	publicBaseURL string
	logger        *zap.Logger
}

// NewOfferNotificationHandler creates the handler. publicBaseURL prefixes
// the /judge-contract/<token> link.
func NewOfferNotificationHandler(shows show.Repository, notifier shared.Notifier, publicBaseURL string, logger *zap.Logger) *OfferNotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferNotificationHandler{
		shows:         shows,
		notifier:      notifier,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OfferNotificationHandler) EventTypes() []string {
	return []string{judging.EventTypeOfferSent, judging.EventTypeOfferAccepted, judging.EventTypeOfferDeclined}
}

// Handle sends the email for one contract event
func (h *OfferNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *judging.OfferSentEvent:
		return h.sendOffer(ctx, e)
	case *judging.ResponseEvent:
		return h.notifySecretary(ctx, e)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

// OfferLink builds the public link for a token
func (h *OfferNotificationHandler) OfferLink(token judging.Token) string {
	return h.publicBaseURL + "/judge-contract/" + string(token)
}

func (h *OfferNotificationHandler) sendOffer(ctx context.Context, e *judging.OfferSentEvent) error {
	sh, err := h.shows.FindByID(ctx, e.ShowID)
	if err != nil {
		return fmt.Errorf("failed to load show: %w", err)
	}
	data := map[string]any{
		"judge_name":  e.JudgeName,
		"show_name":   sh.Name,
		"breeds":      strings.Join(e.Appointment.Breeds, ", "),
		"date":        e.Appointment.Date,
		"notes":       e.Appointment.Notes,
		"accept_link": h.OfferLink(e.Token) + "?action=accept",
		"offer_link":  h.OfferLink(e.Token),
	}
	if err := h.notifier.Send(ctx, shared.TemplateJudgeOffer, e.JudgeEmail, data); err != nil {
		h.logger.Error("Failed to send judge offer",
			zap.String("contract_id", e.ContractID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (h *OfferNotificationHandler) notifySecretary(ctx context.Context, e *judging.ResponseEvent) error {
	sh, err := h.shows.FindByID(ctx, e.ShowID)
	if err != nil {
		return fmt.Errorf("failed to load show: %w", err)
	}
	if sh.SecretaryEmail == "" {
		h.logger.Warn("Show has no secretary email, skipping judge response notice",
			zap.String("show_id", sh.ID.String()))
		return nil
	}
	template := shared.TemplateJudgeOfferAccepted
	if e.EventType() == judging.EventTypeOfferDeclined {
		template = shared.TemplateJudgeOfferDeclined
	}
	return h.notifier.Send(ctx, template, sh.SecretaryEmail, map[string]any{
		"judge_name":  e.JudgeName,
		"show_name":   sh.Name,
		"contract_id": e.ContractID.String(),
		"stage":       string(e.Stage),
	})
}
