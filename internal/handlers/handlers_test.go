package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/trackerbot/core/telegram/flow"
	"github.com/m3rciful/trackerbot/internal/models"
)

func TestStartFlowDropsStaleDraft(t *testing.T) {
	mux := flow.NewMux(flow.NewEngine(flow.NewMemoryStore()))
	h := New(nil, nil, mux)

	const userID int64 = 7
	h.mu.Lock()
	h.drafts[userID] = &entryDraft{CategoryID: 3, Type: models.TxExpense, ready: true}
	h.editing[userID] = 3
	h.mu.Unlock()

	// Opening an unrelated flow must not leave a confirmable draft behind.
	first, err := h.startFlow(userID, flowAddMovie)
	require.NoError(t, err)
	assert.Equal(t, "title", first.Name)
	assert.True(t, mux.InProgress(userID))

	h.mu.Lock()
	_, hasDraft := h.drafts[userID]
	_, hasEdit := h.editing[userID]
	h.mu.Unlock()
	assert.False(t, hasDraft, "entry draft survived a new flow start")
	assert.False(t, hasEdit, "limit edit survived a new flow start")
}

func TestStartFlowUnknownSchema(t *testing.T) {
	mux := flow.NewMux(flow.NewEngine(flow.NewMemoryStore()))
	h := New(nil, nil, mux)

	_, err := h.startFlow(1, "no-such-schema")
	assert.ErrorIs(t, err, flow.ErrUnknownSchema)
}
