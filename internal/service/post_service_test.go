package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/internal/model"
	"github.com/edushare/backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stubScoreService records deltas synchronously so tests can assert on them
// without racing the fire-and-forget goroutine.
type stubScoreService struct {
	mu     sync.Mutex
	deltas map[uuid.UUID]int
}

func newStubScoreService() *stubScoreService {
	return &stubScoreService{deltas: make(map[uuid.UUID]int)}
}

func (s *stubScoreService) Adjust(ctx context.Context, userID uuid.UUID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deltas[userID] += delta
	return nil
}

func (s *stubScoreService) AdjustAsync(userID uuid.UUID, delta int) {
	_ = s.Adjust(context.Background(), userID, delta)
}

func (s *stubScoreService) deltaFor(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deltas[userID]
}

type fakePostRepo struct {
	posts        map[uuid.UUID]*model.Post
	postLikes    map[uuid.UUID]map[uuid.UUID]bool
	comments     map[uuid.UUID]*model.Comment
	commentLikes map[uuid.UUID]map[uuid.UUID]bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:        make(map[uuid.UUID]*model.Post),
		postLikes:    make(map[uuid.UUID]map[uuid.UUID]bool),
		comments:     make(map[uuid.UUID]*model.Comment),
		commentLikes: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *fakePostRepo) addPost(authorID uuid.UUID, content string) uuid.UUID {
	id := uuid.New()
	r.posts[id] = &model.Post{ID: id, AuthorID: authorID, Content: content}
	r.postLikes[id] = make(map[uuid.UUID]bool)
	return id
}

func (r *fakePostRepo) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = uuid.New()
	r.posts[post.ID] = post
	r.postLikes[post.ID] = make(map[uuid.UUID]bool)
	return nil
}

func (r *fakePostRepo) FindPostByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (r *fakePostRepo) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts := make([]model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	return posts, nil
}

func (r *fakePostRepo) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Post, error) {
	var posts []model.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) IsPostLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return r.postLikes[postID][userID], nil
}

func (r *fakePostRepo) AddPostLike(ctx context.Context, postID, userID uuid.UUID) error {
	r.postLikes[postID][userID] = true
	return nil
}

func (r *fakePostRepo) RemovePostLike(ctx context.Context, postID, userID uuid.UUID) (int64, error) {
	if !r.postLikes[postID][userID] {
		return 0, nil
	}
	delete(r.postLikes[postID], userID)
	return 1, nil
}

func (r *fakePostRepo) CountPostLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	return int64(len(r.postLikes[postID])), nil
}

func (r *fakePostRepo) GetPostLikerIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.postLikes[postID]))
	for id := range r.postLikes[postID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakePostRepo) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = uuid.New()
	r.comments[comment.ID] = comment
	r.commentLikes[comment.ID] = make(map[uuid.UUID]bool)
	return nil
}

func (r *fakePostRepo) FindCommentByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (r *fakePostRepo) ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *fakePostRepo) IsCommentLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	return r.commentLikes[commentID][userID], nil
}

func (r *fakePostRepo) AddCommentLike(ctx context.Context, commentID, userID uuid.UUID) error {
	r.commentLikes[commentID][userID] = true
	return nil
}

func (r *fakePostRepo) RemoveCommentLike(ctx context.Context, commentID, userID uuid.UUID) (int64, error) {
	if !r.commentLikes[commentID][userID] {
		return 0, nil
	}
	delete(r.commentLikes[commentID], userID)
	return 1, nil
}

func (r *fakePostRepo) CountCommentLikes(ctx context.Context, commentID uuid.UUID) (int64, error) {
	return int64(len(r.commentLikes[commentID])), nil
}

func (r *fakePostRepo) GetCommentLikerIDs(ctx context.Context, commentID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.commentLikes[commentID]))
	for id := range r.commentLikes[commentID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestCreatePostAwardsAuthor(t *testing.T) {
	repo := newFakePostRepo()
	scores := newStubScoreService()
	svc := NewPostService(repo, scores)
	author := uuid.New()

	post, err := svc.CreatePost(context.Background(), author, dto.CreatePostRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}
	if post.Content != "hello" {
		t.Errorf("Content = %q, want %q", post.Content, "hello")
	}
	if got := scores.deltaFor(author); got != PointsCreatePost {
		t.Errorf("author delta = %d, want %d", got, PointsCreatePost)
	}
}

func TestLikePostCreditsAuthorOnce(t *testing.T) {
	repo := newFakePostRepo()
	scores := newStubScoreService()
	svc := NewPostService(repo, scores)

	author := uuid.New()
	liker := uuid.New()
	postID := repo.addPost(author, "hello")

	res, err := svc.LikePost(context.Background(), liker, postID)
	if err != nil {
		t.Fatalf("LikePost returned error: %v", err)
	}
	if res.LikesCount != 1 {
		t.Errorf("LikesCount = %d, want 1", res.LikesCount)
	}

	// A second like from the same user is rejected and scores nothing.
	if _, err := svc.LikePost(context.Background(), liker, postID); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("second LikePost error = %v, want ErrBadRequest", err)
	}
	if got := scores.deltaFor(author); got != PointsLikeReceived {
		t.Errorf("author delta = %d, want %d", got, PointsLikeReceived)
	}
}

func TestUnlikePostNeverLiked(t *testing.T) {
	repo := newFakePostRepo()
	scores := newStubScoreService()
	svc := NewPostService(repo, scores)

	author := uuid.New()
	postID := repo.addPost(author, "hello")

	_, err := svc.UnlikePost(context.Background(), uuid.New(), postID)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("UnlikePost error = %v, want ErrBadRequest", err)
	}
	if got := scores.deltaFor(author); got != 0 {
		t.Errorf("author delta = %d, want 0", got)
	}
}

func TestLikeThenUnlikeNetsZero(t *testing.T) {
	repo := newFakePostRepo()
	scores := newStubScoreService()
	svc := NewPostService(repo, scores)

	author := uuid.New()
	liker := uuid.New()
	postID := repo.addPost(author, "hello")

	if _, err := svc.LikePost(context.Background(), liker, postID); err != nil {
		t.Fatalf("LikePost returned error: %v", err)
	}
	if _, err := svc.UnlikePost(context.Background(), liker, postID); err != nil {
		t.Fatalf("UnlikePost returned error: %v", err)
	}
	if got := scores.deltaFor(author); got != 0 {
		t.Errorf("author delta = %d, want 0", got)
	}
}

func TestLikeMissingPost(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), newStubScoreService())

	_, err := svc.LikePost(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("LikePost error = %v, want ErrNotFound", err)
	}
}

func TestCommentCreditsPostAuthor(t *testing.T) {
	repo := newFakePostRepo()
	scores := newStubScoreService()
	svc := NewPostService(repo, scores)

	author := uuid.New()
	commenter := uuid.New()
	postID := repo.addPost(author, "hello")

	comment, err := svc.AddComment(context.Background(), commenter, postID, dto.CreateCommentRequest{Content: "nice"})
	if err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}
	if comment.ID == uuid.Nil {
		t.Error("comment ID is nil, want a stable generated id")
	}

	if got := scores.deltaFor(author); got != PointsCommentReceived {
		t.Errorf("post author delta = %d, want %d", got, PointsCommentReceived)
	}
	if got := scores.deltaFor(commenter); got != 0 {
		t.Errorf("commenter delta = %d, want 0", got)
	}
}

func TestCommentLikesNeverScore(t *testing.T) {
	repo := newFakePostRepo()
	scores := newStubScoreService()
	svc := NewPostService(repo, scores)

	author := uuid.New()
	commenter := uuid.New()
	liker := uuid.New()
	postID := repo.addPost(author, "hello")

	comment, err := svc.AddComment(context.Background(), commenter, postID, dto.CreateCommentRequest{Content: "nice"})
	if err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}
	commentDelta := scores.deltaFor(author)

	res, err := svc.LikeComment(context.Background(), liker, postID, comment.ID)
	if err != nil {
		t.Fatalf("LikeComment returned error: %v", err)
	}
	if res.LikesCount != 1 {
		t.Errorf("LikesCount = %d, want 1", res.LikesCount)
	}

	if _, err := svc.LikeComment(context.Background(), liker, postID, comment.ID); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("double LikeComment error = %v, want ErrBadRequest", err)
	}

	if _, err := svc.UnlikeComment(context.Background(), liker, postID, comment.ID); err != nil {
		t.Fatalf("UnlikeComment returned error: %v", err)
	}
	if _, err := svc.UnlikeComment(context.Background(), liker, postID, comment.ID); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("double UnlikeComment error = %v, want ErrBadRequest", err)
	}

	// Neither the like nor the unlike moved any score.
	if got := scores.deltaFor(author); got != commentDelta {
		t.Errorf("post author delta = %d after comment likes, want %d", got, commentDelta)
	}
	if got := scores.deltaFor(commenter); got != 0 {
		t.Errorf("comment author delta = %d, want 0", got)
	}
}

func TestLikeCommentOnWrongPost(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, newStubScoreService())

	author := uuid.New()
	postID := repo.addPost(author, "hello")
	otherPostID := repo.addPost(author, "other")

	comment, err := svc.AddComment(context.Background(), uuid.New(), postID, dto.CreateCommentRequest{Content: "nice"})
	if err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}

	_, err = svc.LikeComment(context.Background(), uuid.New(), otherPostID, comment.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("LikeComment error = %v, want ErrNotFound", err)
	}
}
