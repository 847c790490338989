package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Post is a single blog post. Content is heavy and stored separately
// from the metadata, so it is omitted from JSON when empty.
type Post struct {
	ID        uuid.UUID  `json:"id"`
	Author    string     `json:"author"`
	Title     string     `json:"title"`
	Content   string     `json:"content,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewPost creates a new Post with a fresh ID and creation timestamp.
func NewPost(author, title, content string) Post {
	return Post{
		ID:        uuid.New(),
		Author:    author,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// ValidationError reports a missing required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Validate checks that every required field is present.
func (p *Post) Validate() error {
	switch {
	case p.Author == "":
		return &ValidationError{Field: "author"}
	case p.Title == "":
		return &ValidationError{Field: "title"}
	case p.Content == "":
		return &ValidationError{Field: "content"}
	}
	return nil
}

// ApplyUpdate copies the non-empty fields of in onto p and stamps
// UpdatedAt. The ID never changes.
func (p *Post) ApplyUpdate(in Post) {
	if in.Author != "" {
		p.Author = in.Author
	}
	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Content != "" {
		p.Content = in.Content
	}
	now := time.Now()
	p.UpdatedAt = &now
}
