package service

import (
	"context"
	"errors"
	"log"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/internal/repository"
	"github.com/edushare/backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	Follow(ctx context.Context, currentUserID, targetUserID uuid.UUID) error
	Unfollow(ctx context.Context, currentUserID, targetUserID uuid.UUID) error
}

type userService struct {
	repo         repository.UserRepository
	postRepo     repository.PostRepository
	scoreService ScoreService
}

func NewUserService(repo repository.UserRepository, postRepo repository.PostRepository, scoreService ScoreService) UserService {
	return &userService{
		repo:         repo,
		postRepo:     postRepo,
		scoreService: scoreService,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	followerIDs, err := s.repo.GetFollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	followingIDs, err := s.repo.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	postResponses := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		likerIDs, err := s.postRepo.GetPostLikerIDs(ctx, posts[i].ID)
		if err != nil {
			log.Printf("failed to load likes for post %s: %v", posts[i].ID, err)
			likerIDs = []uuid.UUID{}
		}
		postResponses = append(postResponses, dto.PostResponse{
			ID:         posts[i].ID,
			Content:    posts[i].Content,
			AuthorID:   posts[i].AuthorID,
			Author:     posts[i].Author.Username,
			Likes:      likerIDs,
			LikesCount: int64(len(likerIDs)),
			CreatedAt:  posts[i].CreatedAt,
		})
	}

	return &dto.ProfileResponse{
		User: dto.UserProfile{
			ID:            user.ID,
			Username:      user.Username,
			Role:          user.Role,
			Score:         user.Score,
			WeeklyScore:   user.WeeklyScore,
			LifetimeScore: user.LifetimeScore,
			Followers:     followerIDs,
			Following:     followingIDs,
			CreatedAt:     user.CreatedAt,
		},
		Posts: postResponses,
	}, nil
}

func (s *userService) Follow(ctx context.Context, currentUserID, targetUserID uuid.UUID) error {
	if currentUserID == targetUserID {
		return apperror.New(0, "you cannot follow yourself", apperror.ErrBadRequest)
	}

	if _, err := s.repo.FindByID(ctx, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	following, err := s.repo.IsFollowing(ctx, currentUserID, targetUserID)
	if err != nil {
		return err
	}
	if following {
		return apperror.New(0, "already following this user", apperror.ErrBadRequest)
	}

	if err := s.repo.AddFollow(ctx, currentUserID, targetUserID); err != nil {
		return err
	}

	// The followed user earns the points.
	s.scoreService.AdjustAsync(targetUserID, PointsFollowReceived)
	return nil
}

func (s *userService) Unfollow(ctx context.Context, currentUserID, targetUserID uuid.UUID) error {
	rows, err := s.repo.RemoveFollow(ctx, currentUserID, targetUserID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperror.New(0, "not following this user", apperror.ErrBadRequest)
	}

	s.scoreService.AdjustAsync(targetUserID, -PointsFollowReceived)
	return nil
}
