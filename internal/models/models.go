package models

import (
	"time"
)

type LoginType string

const (
	LoginTypeAdmin LoginType = "admin"
	LoginTypeBirth LoginType = "birth"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for display: urgent first, then medium, then everything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"`
	LoginType    LoginType `json:"loginType" db:"login_type"`
	Birthdate    *string   `json:"birthdate,omitempty" db:"birthdate"`
	CreatedBy    *string   `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.LoginType == LoginTypeAdmin
}

type Todo struct {
	ID        int64     `json:"id" db:"id"`
	Task      string    `json:"task" db:"task"`
	Date      string    `json:"date" db:"date"`
	Time      string    `json:"time" db:"time"`
	Priority  Priority  `json:"priority" db:"priority"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UserID    int64     `json:"userId" db:"user_id"`
}

type Post struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Comment struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Reaction is a row of either the likes or the complaints table.
type Reaction struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CommentView struct {
	Comment
	AuthorName string `json:"username"`
}

type PostView struct {
	Post
	AuthorName     string        `json:"username"`
	LikeCount      int           `json:"likes"`
	ComplaintCount int           `json:"complaints"`
	Liked          bool          `json:"isLiked"`
	Complained     bool          `json:"isComplained"`
	Comments       []CommentView `json:"comments"`
}

type LeaderboardEntry struct {
	UserID          int64  `json:"userId"`
	Username        string `json:"username"`
	TotalLikes      int    `json:"totalLikes"`
	TotalComplaints int    `json:"totalComplaints"`
	NetScore        int    `json:"netScore"`
}
