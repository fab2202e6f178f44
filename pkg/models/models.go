package models

import "time"

// Response is the envelope every ONG API endpoint wraps its payload in
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Slide is one entry of the home carousel
type Slide struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"` // HTML fragment
	Image       string     `json:"image"`
	Order       int        `json:"order"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// News is one entry of the home news pager
type News struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug,omitempty"`
	Content    string     `json:"content"` // HTML fragment
	Image      string     `json:"image"`
	CategoryID int        `json:"category_id,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// Testimonial is one entry of the home testimonials list
type Testimonial struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	Description string     `json:"description"` // HTML fragment
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Member is one entry of the members screen
type Member struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	Description string     `json:"description"` // HTML fragment
	FacebookURL string     `json:"facebookUrl,omitempty"`
	LinkedinURL string     `json:"linkedinUrl,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
