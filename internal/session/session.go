package session

import (
	"strings"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a one-shot status message shown on the next rendered page.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Data is the serialized part of a session.
type Data struct {
	UserID   uint      `json:"user_id,omitempty"`
	Messages []Message `json:"messages,omitempty"`
}

// Session is the per-client state of one request. It is not safe for
// concurrent use; each request owns its own value.
type Session struct {
	key      string
	data     Data
	modified bool
	stale    []string
}

// New returns an empty session without a key. A key is assigned when it is
// first saved.
func New() *Session {
	return &Session{}
}

func (s *Session) Key() string    { return s.key }
func (s *Session) UserID() uint   { return s.data.UserID }
func (s *Session) Modified() bool { return s.modified }
func (s *Session) IsNew() bool    { return s.key == "" }

// Empty reports whether there is nothing worth storing: no user and no
// pending messages.
func (s *Session) Empty() bool {
	return s.data.UserID == 0 && len(s.data.Messages) == 0
}

func (s *Session) SetUserID(id uint) {
	s.data.UserID = id
	s.modified = true
}

func (s *Session) AddMessage(level Level, text string) {
	s.data.Messages = append(s.data.Messages, Message{Level: level, Text: text})
	s.modified = true
}

// Messages returns the queued messages without draining them.
func (s *Session) Messages() []Message {
	return append([]Message(nil), s.data.Messages...)
}

// PopMessages drains the message queue.
func (s *Session) PopMessages() []Message {
	msgs := s.data.Messages
	if len(msgs) > 0 {
		s.data.Messages = nil
		s.modified = true
	}
	return msgs
}

// Rotate keeps the data under a new key; the old key is deleted on save.
func (s *Session) Rotate() {
	if s.key != "" {
		s.stale = append(s.stale, s.key)
	}
	s.key = ""
	s.modified = true
}

// Flush drops all data and rotates the key.
func (s *Session) Flush() {
	s.data = Data{}
	s.Rotate()
}

func newKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}
