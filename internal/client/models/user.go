package models

import "fmt"

// User is one user record as exchanged with the backend. ID and CreatedAt
// are assigned by the server and are only meaningful once returned by it.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func (u User) String() string {
	return fmt.Sprintf("%d %s <%s>", u.ID, u.Username, u.Email)
}

// UserInput is the request body for create and update calls.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
