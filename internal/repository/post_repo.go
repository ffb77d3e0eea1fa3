package repository

import (
	"context"

	"github.com/edushare/backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	FindPostByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Post, error)

	IsPostLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	AddPostLike(ctx context.Context, postID, userID uuid.UUID) error
	RemovePostLike(ctx context.Context, postID, userID uuid.UUID) (int64, error)
	CountPostLikes(ctx context.Context, postID uuid.UUID) (int64, error)
	GetPostLikerIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	FindCommentByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)

	IsCommentLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error)
	AddCommentLike(ctx context.Context, commentID, userID uuid.UUID) error
	RemoveCommentLike(ctx context.Context, commentID, userID uuid.UUID) (int64, error)
	CountCommentLikes(ctx context.Context, commentID uuid.UUID) (int64, error)
	GetCommentLikerIDs(ctx context.Context, commentID uuid.UUID) ([]uuid.UUID, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindPostByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ?", id).Limit(1).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &posts[0], nil
}

func (r *postRepository) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) IsPostLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) AddPostLike(ctx context.Context, postID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&model.PostLike{PostID: postID, UserID: userID}).Error
}

func (r *postRepository) RemovePostLike(ctx context.Context, postID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.PostLike{})
	return res.RowsAffected, res.Error
}

func (r *postRepository) CountPostLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) GetPostLikerIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *postRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *postRepository) FindCommentByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ?", id).Limit(1).Find(&comments).Error
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &comments[0], nil
}

func (r *postRepository) ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *postRepository) IsCommentLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) AddCommentLike(ctx context.Context, commentID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&model.CommentLike{CommentID: commentID, UserID: userID}).Error
}

func (r *postRepository) RemoveCommentLike(ctx context.Context, commentID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&model.CommentLike{})
	return res.RowsAffected, res.Error
}

func (r *postRepository) CountCommentLikes(ctx context.Context, commentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) GetCommentLikerIDs(ctx context.Context, commentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ?", commentID).
		Pluck("user_id", &ids).Error
	return ids, err
}
