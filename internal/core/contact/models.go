package contact

import "time"

type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Body      string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Form is what a visitor submits. Body is the final message text, including
// the listing header when the inquiry references a listing.
type Form struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Body  string `json:"message"`
}

type ListResponse struct {
	Messages []*Message `json:"messages"`
	Total    int        `json:"total"`
	Unread   int        `json:"unread"`
}
