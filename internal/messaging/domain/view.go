package domain

import "sync"

// Ticket identifies the request that will produce results for a view.
type Ticket struct {
	ChannelID  string
	generation uint64
}

// ChannelView holds the messages shown for the active channel. Results are applied only
// when they belong to the latest Begin, so abandoned decrypts cannot overwrite newer state.
type ChannelView struct {
	mu         sync.Mutex
	channelID  string
	generation uint64
	messages   []DecryptedMessage
}

// NewChannelView creates an empty view.
func NewChannelView() *ChannelView {
	return &ChannelView{}
}

// Begin switches to channelID (or refreshes it) and invalidates older tickets.
func (v *ChannelView) Begin(channelID string) Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.generation++
	if v.channelID != channelID {
		v.messages = nil
	}
	v.channelID = channelID
	return Ticket{ChannelID: channelID, generation: v.generation}
}

// Apply stores results if ticket is still current and reports whether it did.
func (v *ChannelView) Apply(ticket Ticket, results []DecryptedMessage) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if ticket.generation != v.generation || ticket.ChannelID != v.channelID {
		return false
	}
	v.messages = append([]DecryptedMessage(nil), results...)
	return true
}

// ChannelID returns the active channel.
func (v *ChannelView) ChannelID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.channelID
}

// Messages returns a copy of the applied messages.
func (v *ChannelView) Messages() []DecryptedMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]DecryptedMessage(nil), v.messages...)
}
