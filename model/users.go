package model

import "time"

type User struct {
	UserID      string    `bson:"user_id" json:"user_id"`
	Username    string    `bson:"username" json:"username"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"display_name" json:"display_name,omitempty"`
	Password    string    `bson:"password" json:"-"` // argon2id salt$hash
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Name is what the UI greets the user with.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
