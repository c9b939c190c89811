package models

// User is the cached identity for a logged-in person. A user counts as
// authenticated only while the validated flag is set AND the upstream
// service still accepts the stored credentials.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email,omitempty"`
}
