package session

// Notice is a short message shown to the user after an operation succeeds.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Store) notify(title, description string) {
	s.notices = append(s.notices, Notice{Title: title, Description: description})
}

// DrainNotices returns the queued notices, oldest first, and clears the queue.
func (s *Store) DrainNotices() []Notice {
	notices := s.notices
	s.notices = nil
	if notices == nil {
		return []Notice{}
	}
	return notices
}
