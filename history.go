package llmclient

import (
	"slices"
	"sync"
)

// History maintains the messages previously sent to or received from the
// model, to be able to send them with every request of a conversation.
//
// Endpoints are stateless; a History is how a caller carries a conversation
// across calls. It is safe for concurrent use.
type History struct {
	mu      sync.Mutex
	history []ChatMessage
}

// Save records messages to the history.
func (h *History) Save(messages ...ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = append(h.history, messages...)
}

// SaveChoice records the message of the selected choice of a completion.
func (h *History) SaveChoice(c *ChatCompletion, idx int) error {
	choice, err := c.Choice(idx)
	if err != nil {
		return err
	}

	h.Save(choice.Message)

	return nil
}

// Load returns a copy of the history to be used in a new request.
func (h *History) Load() []ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	return slices.Clone(h.history)
}

// Next records new messages and returns the whole conversation, ready to be
// used as the messages of the next request.
func (h *History) Next(messages ...ChatMessage) []ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = append(h.history, messages...)

	return slices.Clone(h.history)
}

// Clear removes all history (including system instructions).
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = nil
}
