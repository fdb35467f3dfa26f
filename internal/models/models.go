package models

import "time"

// User represents a user in the system, keyed by the external identity id.
// Following and Followers are denormalized id lists; an edge is always
// present on both sides or on neither.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Following  []string  `json:"following"`
	Followers  []string  `json:"followers"`
	ProfilePic *string   `json:"profile_pic,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsFollowing reports whether targetID is in the user's following list.
func (u *User) IsFollowing(targetID string) bool {
	for _, id := range u.Following {
		if id == targetID {
			return true
		}
	}
	return false
}

// Post represents an image post. Username is captured at creation and may
// go stale if the author later renames. Likes has no write path in the
// current handler surface. Comments are embedded, append-only.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// Comment lives inside its parent post and has no independent identity.
// Timestamp is stored as an RFC 3339 string so comments sort textually.
type Comment struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// UserSummary is the author info attached to timeline posts at read time.
type UserSummary struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	ProfilePic *string `json:"profile_pic,omitempty"`
}

// TimelinePost is a post annotated with a freshly fetched author summary.
type TimelinePost struct {
	Post
	Author *UserSummary `json:"user"`
}
