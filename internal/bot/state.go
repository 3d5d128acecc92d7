package bot

import "sync"

// ChatState tracks where a chat is in the add/delete conversation.
type ChatState int

const (
	// StateIdle means no conversation in progress; free-text is ignored.
	StateIdle ChatState = iota
	// StateAddingWallet means the next text message is an address to add.
	StateAddingWallet
	// StateDeletingWallet means the next text message is an address to delete.
	StateDeletingWallet
)

// StateStore holds per-chat conversation state in memory. A restart drops
// all in-flight conversations back to idle, which is safe: no partial data
// is kept between prompt and reply.
type StateStore struct {
	mu     sync.Mutex
	states map[int64]ChatState
}

// NewStateStore constructs an empty StateStore.
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[int64]ChatState)}
}

// Get returns the chat's state, StateIdle when unknown.
func (s *StateStore) Get(chatID int64) ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[chatID]
}

// Set records the chat's state.
func (s *StateStore) Set(chatID int64, state ChatState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = state
}

// Clear resets the chat to idle.
func (s *StateStore) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chatID)
}
