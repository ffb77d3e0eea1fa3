package service

import (
	"context"
	"errors"
	"testing"

	"github.com/edushare/backend/internal/model"
	"github.com/edushare/backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users   map[uuid.UUID]*model.User
	follows map[uuid.UUID]map[uuid.UUID]bool // follower -> following set
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uuid.UUID]*model.User),
		follows: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *fakeUserRepo) addUser(username, email string) uuid.UUID {
	id := uuid.New()
	r.users[id] = &model.User{ID: id, Username: username, Email: email, Role: model.RoleStudent}
	return id
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return r.follows[followerID][followingID], nil
}

func (r *fakeUserRepo) AddFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if r.follows[followerID] == nil {
		r.follows[followerID] = make(map[uuid.UUID]bool)
	}
	r.follows[followerID][followingID] = true
	return nil
}

func (r *fakeUserRepo) RemoveFollow(ctx context.Context, followerID, followingID uuid.UUID) (int64, error) {
	if !r.follows[followerID][followingID] {
		return 0, nil
	}
	delete(r.follows[followerID], followingID)
	return 1, nil
}

func (r *fakeUserRepo) GetFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for follower, set := range r.follows {
		if set[userID] {
			ids = append(ids, follower)
		}
	}
	return ids, nil
}

func (r *fakeUserRepo) GetFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for following := range r.follows[userID] {
		ids = append(ids, following)
	}
	return ids, nil
}

func TestFollowCreditsTarget(t *testing.T) {
	repo := newFakeUserRepo()
	scores := newStubScoreService()
	svc := NewUserService(repo, newFakePostRepo(), scores)

	follower := repo.addUser("alice", "alice@example.com")
	target := repo.addUser("bob", "bob@example.com")

	if err := svc.Follow(context.Background(), follower, target); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	if got := scores.deltaFor(target); got != PointsFollowReceived {
		t.Errorf("target delta = %d, want %d", got, PointsFollowReceived)
	}
	if got := scores.deltaFor(follower); got != 0 {
		t.Errorf("follower delta = %d, want 0", got)
	}

	// A duplicate follow is rejected and scores nothing more.
	if err := svc.Follow(context.Background(), follower, target); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("second Follow error = %v, want ErrBadRequest", err)
	}
	if got := scores.deltaFor(target); got != PointsFollowReceived {
		t.Errorf("target delta = %d after duplicate follow, want %d", got, PointsFollowReceived)
	}
}

func TestSelfFollowRejected(t *testing.T) {
	repo := newFakeUserRepo()
	scores := newStubScoreService()
	svc := NewUserService(repo, newFakePostRepo(), scores)

	id := repo.addUser("alice", "alice@example.com")

	err := svc.Follow(context.Background(), id, id)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Follow error = %v, want ErrBadRequest", err)
	}
	if got := scores.deltaFor(id); got != 0 {
		t.Errorf("delta = %d, want 0", got)
	}
}

func TestFollowMissingUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakePostRepo(), newStubScoreService())

	follower := repo.addUser("alice", "alice@example.com")

	err := svc.Follow(context.Background(), follower, uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Follow error = %v, want ErrNotFound", err)
	}
}

func TestUnfollowNotFollowing(t *testing.T) {
	repo := newFakeUserRepo()
	scores := newStubScoreService()
	svc := NewUserService(repo, newFakePostRepo(), scores)

	follower := repo.addUser("alice", "alice@example.com")
	target := repo.addUser("bob", "bob@example.com")

	err := svc.Unfollow(context.Background(), follower, target)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Unfollow error = %v, want ErrBadRequest", err)
	}
	if got := scores.deltaFor(target); got != 0 {
		t.Errorf("target delta = %d, want 0", got)
	}
}

func TestFollowUnfollowNetsZero(t *testing.T) {
	repo := newFakeUserRepo()
	scores := newStubScoreService()
	svc := NewUserService(repo, newFakePostRepo(), scores)

	follower := repo.addUser("alice", "alice@example.com")
	target := repo.addUser("bob", "bob@example.com")

	if err := svc.Follow(context.Background(), follower, target); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	if err := svc.Unfollow(context.Background(), follower, target); err != nil {
		t.Fatalf("Unfollow returned error: %v", err)
	}
	if got := scores.deltaFor(target); got != 0 {
		t.Errorf("target delta = %d, want 0", got)
	}
}

func TestGetProfileIncludesFollowGraph(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakePostRepo(), newStubScoreService())

	alice := repo.addUser("alice", "alice@example.com")
	bob := repo.addUser("bob", "bob@example.com")
	carol := repo.addUser("carol", "carol@example.com")

	if err := svc.Follow(context.Background(), bob, alice); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	if err := svc.Follow(context.Background(), alice, carol); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), alice)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if profile.User.Username != "alice" {
		t.Errorf("Username = %q, want %q", profile.User.Username, "alice")
	}
	if len(profile.User.Followers) != 1 || profile.User.Followers[0] != bob {
		t.Errorf("Followers = %v, want [%s]", profile.User.Followers, bob)
	}
	if len(profile.User.Following) != 1 || profile.User.Following[0] != carol {
		t.Errorf("Following = %v, want [%s]", profile.User.Following, carol)
	}
}
