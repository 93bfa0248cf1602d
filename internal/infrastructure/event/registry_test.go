package event

import (
	"testing"

	"github.com/showring/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	offers := testutil.NewRecordingHandler()
	all := testutil.NewRecordingHandler()

	r.Register(offers, "JudgeOfferSent", "JudgeOfferAccepted")
	r.Register(all)

	assert.Equal(t, 2, r.Len())
	assert.Len(t, r.HandlersFor("JudgeOfferSent"), 2)
	assert.Len(t, r.HandlersFor("OrderPaid"), 1)

	r.Unregister(offers)
	assert.Len(t, r.HandlersFor("JudgeOfferSent"), 1)
	assert.Equal(t, 1, r.Len())

	r.Unregister(all)
	assert.Empty(t, r.HandlersFor("JudgeOfferSent"))
	assert.Zero(t, r.Len())
}
