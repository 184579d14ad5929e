package model

import "time"

// News mirrors the `news` table.  Image holds the reference returned by the
// upload sink (a path under /uploads), not the binary itself.
type News struct {
	ID          uint64    `json:"id"`          // news.id
	Title       string    `json:"title"`       // news.title
	Date        string    `json:"date"`        // news.date (client-supplied display date)
	Description string    `json:"description"` // news.description
	Image       string    `json:"image"`       // news.image
	CreatedAt   time.Time `json:"createdAt"`   // news.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // news.updated_at
}
