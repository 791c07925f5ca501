package domain

import "strconv"

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchAccepted MatchStatus = "accepted"
	MatchDeclined MatchStatus = "declined"
)

type RequestAction string

const (
	ActionAccept  RequestAction = "accept"
	ActionDecline RequestAction = "decline"
)

// Match is the single record shared by both participants of a pair.
// Buddy is filled at read time with the counterpart of the reader.
type Match struct {
	ID         string      `json:"id"`
	PairKey    string      `json:"pair_key"`
	SenderID   string      `json:"sender_id"`
	ReceiverID string      `json:"receiver_id"`
	Status     MatchStatus `json:"status"`
	Timestamp  int64       `json:"timestamp"`
	Buddy      *User       `json:"buddy,omitempty"`
}

// PairKey is order independent: PairKey(a, b) == PairKey(b, a).
// The smaller id is length prefixed, so ids containing "_" cannot collide.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return strconv.Itoa(len(a)) + "_" + a + "_" + b
}

func (m *Match) HasUser(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

func (m *Match) GetOtherUserID(userID string) (string, bool) {
	if m.SenderID == userID {
		return m.ReceiverID, true
	}
	if m.ReceiverID == userID {
		return m.SenderID, true
	}
	return "", false
}

// Stored strips the read-time buddy snapshot.
func (m Match) Stored() Match {
	m.Buddy = nil
	return m
}
