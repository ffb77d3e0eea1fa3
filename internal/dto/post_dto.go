package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type PostResponse struct {
	ID         uuid.UUID         `json:"id"`
	Content    string            `json:"content"`
	AuthorID   uuid.UUID         `json:"author_id"`
	Author     string            `json:"author"`
	Likes      []uuid.UUID       `json:"likes"`
	LikesCount int64             `json:"likesCount"`
	Comments   []CommentResponse `json:"comments,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID         uuid.UUID   `json:"id"`
	PostID     uuid.UUID   `json:"post_id"`
	AuthorID   uuid.UUID   `json:"author_id"`
	Author     string      `json:"author"`
	Content    string      `json:"content"`
	Likes      []uuid.UUID `json:"likes"`
	LikesCount int64       `json:"likesCount"`
	CreatedAt  time.Time   `json:"created_at"`
}

type LikeResponse struct {
	Msg        string `json:"msg"`
	LikesCount int64  `json:"likesCount"`
}
