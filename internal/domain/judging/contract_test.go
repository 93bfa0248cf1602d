package judging

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContract(t *testing.T, now time.Time) (*JudgeContract, Token) {
	t.Helper()
	tok, err := NewToken()
	require.NoError(t, err)
	c := NewContract(uuid.New(), uuid.New(), uuid.New(), "A. Judge", "judge@example.com",
		Appointment{Breeds: []string{"Beagle"}}, tok, 14*24*time.Hour, now)
	return c, tok
}

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, string(a), 43)
	assert.Len(t, a.Hash(), 64)
	assert.Equal(t, a.Hash(), HashToken(string(a)))
}

func TestNewContract_StoresHashOnly(t *testing.T) {
	now := time.Now()
	c, tok := newTestContract(t, now)

	assert.Equal(t, StageOfferSent, c.Stage)
	assert.Equal(t, tok.Hash(), c.TokenHash)
	assert.NotContains(t, c.TokenHash, string(tok))
	assert.Equal(t, now.Add(14*24*time.Hour), c.TokenExpiresAt)

	events := c.PullDomainEvents()
	require.Len(t, events, 1)
	sent := events[0].(*OfferSentEvent)
	assert.Equal(t, tok, sent.Token)
}

func TestJudgeContract_Transitions(t *testing.T) {
	now := time.Now()

	t.Run("accept then confirm", func(t *testing.T) {
		c, _ := newTestContract(t, now)
		c.PullDomainEvents()
		require.NoError(t, c.Accept(now))
		assert.Equal(t, StageOfferAccepted, c.Stage)
		assert.NotNil(t, c.AcceptedAt)
		require.NoError(t, c.Confirm(now))
		assert.Equal(t, StageConfirmed, c.Stage)
		assert.NotNil(t, c.ConfirmedAt)

		events := c.PullDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOfferAccepted, events[0].EventType())
	})

	t.Run("replayed accept is rejected without events", func(t *testing.T) {
		c, _ := newTestContract(t, now)
		require.NoError(t, c.Accept(now))
		c.PullDomainEvents()

		assert.ErrorIs(t, c.Accept(now), ErrAlreadyResponded)
		assert.ErrorIs(t, c.Decline(now), ErrAlreadyResponded)
		assert.Equal(t, StageOfferAccepted, c.Stage)
		assert.Empty(t, c.PullDomainEvents())
	})

	t.Run("decline is terminal", func(t *testing.T) {
		c, _ := newTestContract(t, now)
		require.NoError(t, c.Respond(ActionDecline, now))
		assert.Equal(t, StageDeclined, c.Stage)
		assert.ErrorIs(t, c.Accept(now), ErrAlreadyResponded)
		assert.ErrorIs(t, c.Confirm(now), ErrInvalidTransition)
	})

	t.Run("confirm requires acceptance", func(t *testing.T) {
		c, _ := newTestContract(t, now)
		assert.ErrorIs(t, c.Confirm(now), ErrInvalidTransition)
	})
}

func TestJudgeContract_Expiry(t *testing.T) {
	now := time.Now()
	c, _ := newTestContract(t, now)

	assert.NoError(t, c.CheckToken(now.Add(13*24*time.Hour)))
	assert.ErrorIs(t, c.CheckToken(now.Add(15*24*time.Hour)), ErrTokenExpired)
	assert.True(t, c.IsLive(now))
	assert.False(t, c.IsLive(now.Add(15*24*time.Hour)))

	require.NoError(t, c.Accept(now))
	assert.True(t, c.IsLive(now.Add(30*24*time.Hour)), "accepted contracts stay live")
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("accept")
	require.NoError(t, err)
	assert.Equal(t, ActionAccept, a)

	_, err = ParseAction("confirm")
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = ParseAction("")
	assert.ErrorIs(t, err, ErrInvalidAction)
}
