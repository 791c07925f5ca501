package mirror

import (
	"context"
	"sort"
	"sync"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

type matchListener struct {
	userID string
	fn     func([]domain.Match)
}

type chatListener struct {
	chatID string
	fn     func([]domain.ChatMessage)
}

// MemoryMirror is an in-process realtime tree. Listeners are invoked
// synchronously on the writing goroutine, after the write is visible.
type MemoryMirror struct {
	mu      sync.Mutex
	users   map[string]domain.User
	matches map[string]domain.Match
	chats   map[string][]domain.ChatMessage

	nextID         int
	userListeners  map[int]func([]domain.User)
	matchListeners map[int]matchListener
	chatListeners  map[int]chatListener
}

func NewMemory() *MemoryMirror {
	return &MemoryMirror{
		users:          make(map[string]domain.User),
		matches:        make(map[string]domain.Match),
		chats:          make(map[string][]domain.ChatMessage),
		userListeners:  make(map[int]func([]domain.User)),
		matchListeners: make(map[int]matchListener),
		chatListeners:  make(map[int]chatListener),
	}
}

func (m *MemoryMirror) Enabled() bool { return true }

func (m *MemoryMirror) SyncUser(_ context.Context, user *domain.User) error {
	if user == nil {
		return nil
	}
	m.mu.Lock()
	m.users[user.ID] = *user.Public()
	snapshot := m.usersSnapshotLocked()
	listeners := m.userListenersLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

func (m *MemoryMirror) GetUser(_ context.Context, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (m *MemoryMirror) ListenToUsers(_ context.Context, fn func([]domain.User)) Unsubscribe {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.userListeners[id] = fn
	snapshot := m.usersSnapshotLocked()
	m.mu.Unlock()

	if len(snapshot) > 0 {
		fn(snapshot)
	}
	return m.unsubscriber(func() { delete(m.userListeners, id) })
}

func (m *MemoryMirror) SendMatchRequest(_ context.Context, match domain.Match) error {
	m.mu.Lock()
	m.matches[match.PairKey] = match.Stored()
	m.mu.Unlock()

	m.notifyMatches(match.SenderID, match.ReceiverID)
	return nil
}

func (m *MemoryMirror) UpdateMatchStatus(_ context.Context, pairKey string, status domain.MatchStatus) error {
	m.mu.Lock()
	match, ok := m.matches[pairKey]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	if status == domain.MatchDeclined {
		delete(m.matches, pairKey)
	} else {
		match.Status = status
		m.matches[pairKey] = match
	}
	m.mu.Unlock()

	m.notifyMatches(match.SenderID, match.ReceiverID)
	return nil
}

func (m *MemoryMirror) ListenToMatches(_ context.Context, userID string, fn func([]domain.Match)) Unsubscribe {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.matchListeners[id] = matchListener{userID: userID, fn: fn}
	snapshot := m.matchesSnapshotLocked(userID)
	m.mu.Unlock()

	fn(snapshot)
	return m.unsubscriber(func() { delete(m.matchListeners, id) })
}

func (m *MemoryMirror) SendMessage(_ context.Context, chatID string, message domain.ChatMessage) error {
	m.mu.Lock()
	m.chats[chatID] = append(m.chats[chatID], message)
	snapshot := m.chatSnapshotLocked(chatID)
	var listeners []func([]domain.ChatMessage)
	for _, l := range m.chatListeners {
		if l.chatID == chatID {
			listeners = append(listeners, l.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

func (m *MemoryMirror) ListenToChat(_ context.Context, chatID string, fn func([]domain.ChatMessage)) Unsubscribe {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.chatListeners[id] = chatListener{chatID: chatID, fn: fn}
	snapshot := m.chatSnapshotLocked(chatID)
	m.mu.Unlock()

	fn(snapshot)
	return m.unsubscriber(func() { delete(m.chatListeners, id) })
}

func (m *MemoryMirror) Clear(context.Context) error {
	m.mu.Lock()
	m.users = make(map[string]domain.User)
	m.matches = make(map[string]domain.Match)
	m.chats = make(map[string][]domain.ChatMessage)
	m.mu.Unlock()
	return nil
}

func (m *MemoryMirror) notifyMatches(userIDs ...string) {
	type delivery struct {
		fn       func([]domain.Match)
		snapshot []domain.Match
	}

	m.mu.Lock()
	var deliveries []delivery
	for _, l := range m.matchListeners {
		for _, uid := range userIDs {
			if l.userID == uid {
				deliveries = append(deliveries, delivery{fn: l.fn, snapshot: m.matchesSnapshotLocked(uid)})
				break
			}
		}
	}
	m.mu.Unlock()

	for _, d := range deliveries {
		d.fn(d.snapshot)
	}
}

func (m *MemoryMirror) unsubscriber(remove func()) Unsubscribe {
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			remove()
			m.mu.Unlock()
		})
	}
}

func (m *MemoryMirror) userListenersLocked() []func([]domain.User) {
	listeners := make([]func([]domain.User), 0, len(m.userListeners))
	for _, fn := range m.userListeners {
		listeners = append(listeners, fn)
	}
	return listeners
}

func (m *MemoryMirror) usersSnapshotLocked() []domain.User {
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (m *MemoryMirror) matchesSnapshotLocked(userID string) []domain.Match {
	matches := []domain.Match{}
	for _, match := range m.matches {
		if match.HasUser(userID) {
			matches = append(matches, match)
		}
	}
	sortMatches(matches)
	return matches
}

func (m *MemoryMirror) chatSnapshotLocked(chatID string) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, len(m.chats[chatID]))
	copy(messages, m.chats[chatID])
	return messages
}

func sortMatches(matches []domain.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Timestamp != matches[j].Timestamp {
			return matches[i].Timestamp < matches[j].Timestamp
		}
		return matches[i].ID < matches[j].ID
	})
}
