package service

import (
	"context"
	"errors"
	"log"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/internal/model"
	"github.com/edushare/backend/internal/repository"
	"github.com/edushare/backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error)
	GetAllPosts(ctx context.Context) ([]dto.PostResponse, error)

	LikePost(ctx context.Context, userID, postID uuid.UUID) (*dto.LikeResponse, error)
	UnlikePost(ctx context.Context, userID, postID uuid.UUID) (*dto.LikeResponse, error)

	AddComment(ctx context.Context, userID, postID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetComments(ctx context.Context, postID uuid.UUID) ([]dto.CommentResponse, error)

	LikeComment(ctx context.Context, userID, postID, commentID uuid.UUID) (*dto.LikeResponse, error)
	UnlikeComment(ctx context.Context, userID, postID, commentID uuid.UUID) (*dto.LikeResponse, error)
}

type postService struct {
	repo         repository.PostRepository
	scoreService ScoreService
}

func NewPostService(repo repository.PostRepository, scoreService ScoreService) PostService {
	return &postService{
		repo:         repo,
		scoreService: scoreService,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := &model.Post{
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	saved, err := s.repo.FindPostByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	// Scoring is a best-effort side effect of the saved post.
	s.scoreService.AdjustAsync(authorID, PointsCreatePost)

	resp := s.toPostResponse(ctx, saved)
	return &resp, nil
}

func (s *postService) GetAllPosts(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, s.toPostResponse(ctx, &posts[i]))
	}
	return responses, nil
}

func (s *postService) LikePost(ctx context.Context, userID, postID uuid.UUID) (*dto.LikeResponse, error) {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	liked, err := s.repo.IsPostLiked(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, apperror.New(0, "post already liked", apperror.ErrBadRequest)
	}

	if err := s.repo.AddPostLike(ctx, postID, userID); err != nil {
		return nil, err
	}

	// The author of the post earns the point, not the liker.
	s.scoreService.AdjustAsync(post.AuthorID, PointsLikeReceived)

	count, err := s.repo.CountPostLikes(ctx, postID)
	if err != nil {
		log.Printf("failed to count likes for post %s: %v", postID, err)
	}
	return &dto.LikeResponse{Msg: "post liked", LikesCount: count}, nil
}

func (s *postService) UnlikePost(ctx context.Context, userID, postID uuid.UUID) (*dto.LikeResponse, error) {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	rows, err := s.repo.RemovePostLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperror.New(0, "post not liked yet", apperror.ErrBadRequest)
	}

	s.scoreService.AdjustAsync(post.AuthorID, -PointsLikeReceived)

	count, err := s.repo.CountPostLikes(ctx, postID)
	if err != nil {
		log.Printf("failed to count likes for post %s: %v", postID, err)
	}
	return &dto.LikeResponse{Msg: "post unliked", LikesCount: count}, nil
}

func (s *postService) AddComment(ctx context.Context, userID, postID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	saved, err := s.repo.FindCommentByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	// The post's author earns the comment points, not the commenter.
	s.scoreService.AdjustAsync(post.AuthorID, PointsCommentReceived)

	resp := s.toCommentResponse(ctx, saved)
	return &resp, nil
}

func (s *postService) GetComments(ctx context.Context, postID uuid.UUID) ([]dto.CommentResponse, error) {
	if _, err := s.repo.FindPostByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	comments, err := s.repo.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, s.toCommentResponse(ctx, &comments[i]))
	}
	return responses, nil
}

// Comment likes intentionally never touch the score ledger, unlike post likes.
func (s *postService) LikeComment(ctx context.Context, userID, postID, commentID uuid.UUID) (*dto.LikeResponse, error) {
	comment, err := s.findCommentOnPost(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.IsCommentLiked(ctx, comment.ID, userID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, apperror.New(0, "comment already liked", apperror.ErrBadRequest)
	}

	if err := s.repo.AddCommentLike(ctx, comment.ID, userID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountCommentLikes(ctx, comment.ID)
	if err != nil {
		log.Printf("failed to count likes for comment %s: %v", comment.ID, err)
	}
	return &dto.LikeResponse{Msg: "comment liked", LikesCount: count}, nil
}

func (s *postService) UnlikeComment(ctx context.Context, userID, postID, commentID uuid.UUID) (*dto.LikeResponse, error) {
	comment, err := s.findCommentOnPost(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.RemoveCommentLike(ctx, comment.ID, userID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperror.New(0, "comment not liked yet", apperror.ErrBadRequest)
	}

	count, err := s.repo.CountCommentLikes(ctx, comment.ID)
	if err != nil {
		log.Printf("failed to count likes for comment %s: %v", comment.ID, err)
	}
	return &dto.LikeResponse{Msg: "comment unliked", LikesCount: count}, nil
}

func (s *postService) findCommentOnPost(ctx context.Context, postID, commentID uuid.UUID) (*model.Comment, error) {
	comment, err := s.repo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if comment.PostID != postID {
		return nil, apperror.ErrNotFound
	}
	return comment, nil
}

func (s *postService) toPostResponse(ctx context.Context, post *model.Post) dto.PostResponse {
	likerIDs, err := s.repo.GetPostLikerIDs(ctx, post.ID)
	if err != nil {
		log.Printf("failed to load likes for post %s: %v", post.ID, err)
		likerIDs = []uuid.UUID{}
	}

	return dto.PostResponse{
		ID:         post.ID,
		Content:    post.Content,
		AuthorID:   post.AuthorID,
		Author:     post.Author.Username,
		Likes:      likerIDs,
		LikesCount: int64(len(likerIDs)),
		CreatedAt:  post.CreatedAt,
	}
}

func (s *postService) toCommentResponse(ctx context.Context, comment *model.Comment) dto.CommentResponse {
	likerIDs, err := s.repo.GetCommentLikerIDs(ctx, comment.ID)
	if err != nil {
		log.Printf("failed to load likes for comment %s: %v", comment.ID, err)
		likerIDs = []uuid.UUID{}
	}

	return dto.CommentResponse{
		ID:         comment.ID,
		PostID:     comment.PostID,
		AuthorID:   comment.AuthorID,
		Author:     comment.Author.Username,
		Content:    comment.Content,
		Likes:      likerIDs,
		LikesCount: int64(len(likerIDs)),
		CreatedAt:  comment.CreatedAt,
	}
}
