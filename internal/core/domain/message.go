package domain

import "time"

// Message is a todo item owned by a single user.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessagePatch carries the optional fields of a partial update.
type MessagePatch struct {
	Title     *string
	Body      *string
	Completed *bool
}

// Empty reports whether the patch changes nothing.
func (p MessagePatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Completed == nil
}
