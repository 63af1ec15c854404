package models

import "time"

// PracticeSession holds the per-browser-session practice state: what
// has been served, where the difficulty currently sits, and the
// running score. It lives in memory only and dies with the session.
type PracticeSession struct {
	Token       string    `json:"token"`
	Subcategory string    `json:"subcategory"`
	Difficulty  int       `json:"difficulty"`
	Round       int       `json:"round"`
	Answered    int       `json:"answered"`
	Correct     int       `json:"correct"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`

	// Seen is the set of question IDs already delivered. It only
	// grows; a question in here is never served again.
	Seen map[int]struct{} `json:"-"`

	// OpenRound holds the IDs of the questions delivered in the most
	// recent round and not yet submitted.
	OpenRound []int `json:"-"`
}

func (s *PracticeSession) HasSeen(questionID int) bool {
	_, ok := s.Seen[questionID]
	return ok
}

func (s *PracticeSession) MarkSeen(questionID int) {
	s.Seen[questionID] = struct{}{}
}

func (s *PracticeSession) SeenIDs() []int {
	ids := make([]int, 0, len(s.Seen))
	for id := range s.Seen {
		ids = append(ids, id)
	}
	return ids
}

func (s *PracticeSession) InOpenRound(questionID int) bool {
	for _, id := range s.OpenRound {
		if id == questionID {
			return true
		}
	}
	return false
}
