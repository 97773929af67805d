package game

import (
	"time"

	"github.com/google/uuid"
)

// QuickAction is an optional one-tap input the presentation layer may
// offer. Purely advisory.
type QuickAction struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Message is one entry in the session history. Immutable once appended.
type Message struct {
	ID           string        `json:"id"`
	Role         Role          `json:"role"`
	Body         string        `json:"body"`
	CreatedAt    time.Time     `json:"created_at"`
	QuickActions []QuickAction `json:"quick_actions,omitempty"`
}

func newMessage(role Role, body string, actions ...QuickAction) Message {
	return Message{
		ID:           uuid.NewString(),
		Role:         role,
		Body:         body,
		CreatedAt:    time.Now().UTC(),
		QuickActions: actions,
	}
}

func userMessage(body string) Message {
	return newMessage(RoleUser, body)
}

func teacherMessage(body string, actions ...QuickAction) Message {
	return newMessage(RoleTeacher, body, actions...)
}

func systemMessage(body string, actions ...QuickAction) Message {
	return newMessage(RoleSystem, body, actions...)
}

// menuQuickActions is attached to teacher replies so the user can bail
// out of training with one tap.
func menuQuickActions() []QuickAction {
	return []QuickAction{
		{Label: "Back to menu", Token: TokenMenu},
	}
}
