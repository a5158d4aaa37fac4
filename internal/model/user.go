package model

import (
    "strconv"
    "time"
)

// User represents an application user record as stored in the
// `users` table.  PasswordHash never leaves the server: handlers
// respond with Identity instead.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name given at registration.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Identity is the user attached to a request once its bearer token has
// been verified.  The id is carried in string form so it can be compared
// with ids coming from tokens and from other tables without caring about
// their native column type.
type Identity struct {
    ID    string `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
}

// Identity strips the password hash and normalizes the id.
func (u User) Identity() Identity {
    return Identity{
        ID:    FormatID(u.ID),
        Name:  u.Name,
        Email: u.Email,
    }
}

// FormatID renders a store id in the string form used by tokens and identities.
func FormatID(id uint64) string {
    return strconv.FormatUint(id, 10)
}

// ParseID is the inverse of FormatID.
func ParseID(s string) (uint64, bool) {
    id, err := strconv.ParseUint(s, 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}
