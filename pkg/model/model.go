// Package model defines the forum's persisted entities, the request inputs
// accepted by the services, and the enriched response shapes returned to
// callers.
package model

// User is a registered forum member. The password is stored as an opaque
// string and never serialized outward.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Summary returns the denormalized author shape embedded in post and
// comment views.
func (u User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username}
}

// Post is a top-level forum entry. UserID references the author and is
// immutable after creation.
type Post struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int64  `json:"userId"`
}

// Comment is a reply to a post. PostID and UserID are immutable after
// creation.
type Comment struct {
	ID     int64  `json:"id"`
	Body   string `json:"body"`
	PostID int64  `json:"postId"`
	UserID int64  `json:"userId"`
}

// UserSummary is the author display shape joined into enriched views.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// PostView is a post enriched with its author summary.
type PostView struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Body   string       `json:"body"`
	UserID int64        `json:"userId"`
	Author *UserSummary `json:"author,omitempty"`
}

// CommentView is a comment enriched with its author summary.
type CommentView struct {
	ID     int64        `json:"id"`
	Body   string       `json:"body"`
	PostID int64        `json:"postId"`
	UserID int64        `json:"userId"`
	Author *UserSummary `json:"author,omitempty"`
}

// PostWithComments is the "post with embedded comments" read shape served
// by the single-post endpoint when comments are requested.
type PostWithComments struct {
	PostView
	Comments []CommentView `json:"comments"`
}

// LoginResult carries the authenticated user and the issued bearer token.
type LoginResult struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}

// CreateUser is the signup input.
type CreateUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUser mutates username and password. A blank password keeps the
// current one.
type UpdateUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreatePost is the post creation input. UserID must reference an existing
// user.
type CreatePost struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int64  `json:"userId"`
}

// UpdatePost mutates title and body only; authorship is immutable.
type UpdatePost struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateComment is the comment creation input. PostID and UserID must
// reference existing entities.
type CreateComment struct {
	Body   string `json:"body"`
	PostID int64  `json:"postId"`
	UserID int64  `json:"userId"`
}

// UpdateComment mutates the body only.
type UpdateComment struct {
	Body string `json:"body"`
}

// Login is the credential input for the login endpoint.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
