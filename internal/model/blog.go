package model

import "time"

// Blog represents a row in the `blogs` table.  Ids are rendered as JSON
// strings, matching the identity ids handed out in tokens.
//
// Fields:
//  ID        – primary key identifier.
//  AuthorID  – users.id of the author; fixed at creation.
//  Title     – required, non-empty.
//  Content   – required, non-empty.
//  Category  – required, non-empty.
//  Tags      – ordered list of tags, never nil once loaded.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Blog struct {
    ID        uint64    `json:"id,string"`
    AuthorID  uint64    `json:"authorId,string"`
    Title     string    `json:"title"`
    Content   string    `json:"content"`
    Category  string    `json:"category"`
    Tags      []string  `json:"tags"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedBy reports whether the identity is the blog's author.  Both sides
// are compared in their string form.
func (b *Blog) OwnedBy(who Identity) bool {
    return who.ID != "" && FormatID(b.AuthorID) == who.ID
}
