package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ugram-app/backend/internal/domain/clock"
	"github.com/ugram-app/backend/internal/domain/entity"
	repo "github.com/ugram-app/backend/internal/domain/repository"
	"github.com/ugram-app/backend/pkg/helpers"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPagination = errors.New("invalid pagination")
)

const (
	// ListUsers accepts limits in [1, MaxListLimit].
	MaxListLimit = 1000

	profileCacheTTL = 15 * time.Minute
)

// Service orchestrates user use cases: cross-entity uniqueness that a single
// aggregate cannot check against itself, pagination bounds, and mapping of
// persistence outcomes to domain errors.
//
// Redis and ES are optional; when nil the service skips caching and search
// indexing and serves everything from the repository.
type Service struct {
	Repo         repo.UserRepository
	Clock        clock.Clock
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(r repo.UserRepository, clk clock.Clock, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *Service {
	return &Service{
		Repo:         r,
		Clock:        clk,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

func profileKey(id uuid.UUID) string {
	return "user:profile:" + id.String()
}

// GetUser returns the user with the given id, serving from the Redis cache
// when possible.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if s.Redis != nil {
		var cached entity.User
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(id), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: id %s", ErrUserNotFound, id)
	}
	s.cacheProfile(ctx, u)
	return u, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: username %q", ErrUserNotFound, username)
	}
	return u, nil
}

// CreateUserInput carries the fields for user registration. PhoneNumber and
// ProfilePhotoURL may be empty.
type CreateUserInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	PhoneNumber     string
	ProfilePhotoURL string
}

// CreateUser enforces global uniqueness and persists a new user. Username is
// checked before email, so when both collide the username conflict is the one
// reported. The database unique constraints back this check up under
// concurrent creates; the repository surfaces those violations as
// ErrUserAlreadyExists too.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if existing, err := s.Repo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: username %q is already taken", ErrUserAlreadyExists, in.Username)
	}

	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email %q is already taken", ErrUserAlreadyExists, in.Email)
	}

	u, err := entity.NewUser(in.Username, in.Email, in.FirstName, in.LastName, s.Clock, in.PhoneNumber, in.ProfilePhotoURL)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, translateRepoErr(err, u)
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user created")
	}
	s.cacheProfile(ctx, u)
	s.indexUser(ctx, u)
	return u, nil
}

// UpdateUserProfile loads the user and applies a partial update. Email
// uniqueness is only checked when the email actually changes; updating to the
// current value is not a conflict.
func (s *Service) UpdateUserProfile(ctx context.Context, id uuid.UUID, in entity.ProfileUpdate) (*entity.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != u.Email {
		other, err := s.Repo.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("%w: email %q is already taken", ErrUserAlreadyExists, *in.Email)
		}
	}

	if err := u.UpdateProfile(in); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, translateRepoErr(err, u)
	}

	s.cacheProfile(ctx, u)
	s.indexUser(ctx, u)
	return u, nil
}

// UpdateProfilePhoto replaces the photo URL without validation.
func (s *Service) UpdateProfilePhoto(ctx context.Context, id uuid.UUID, url string) (*entity.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	u.UpdateProfilePhoto(url)
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, translateRepoErr(err, u)
	}

	s.cacheProfile(ctx, u)
	s.indexUser(ctx, u)
	return u, nil
}

// ListUsers returns a page ordered by username ascending. Limit must be in
// [1, MaxListLimit] and offset non-negative.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if limit < 1 || limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidPagination, MaxListLimit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must be non-negative", ErrInvalidPagination)
	}
	return s.Repo.ListAll(ctx, limit, offset)
}

// CountUsers returns the total number of stored users, for pagination
// metadata alongside ListUsers.
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.Repo.Count(ctx)
}

// translateRepoErr maps persistence verdicts to domain errors. Two racing
// creates can both pass the read-side uniqueness check; the database unique
// constraint is what actually decides, and its violation must still surface
// as a conflict.
func translateRepoErr(err error, u *entity.User) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateUsername):
		return fmt.Errorf("%w: username %q is already taken", ErrUserAlreadyExists, u.Username)
	case errors.Is(err, repo.ErrDuplicateEmail):
		return fmt.Errorf("%w: email %q is already taken", ErrUserAlreadyExists, u.Email)
	case errors.Is(err, repo.ErrNotFound):
		return fmt.Errorf("%w: id %s", ErrUserNotFound, u.ID)
	}
	return err
}

func (s *Service) cacheProfile(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(u.ID), u, profileCacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache write failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":                u.ID,
		"username":          u.Username,
		"email":             u.Email,
		"first_name":        u.FirstName,
		"last_name":         u.LastName,
		"profile_photo_url": u.ProfilePhotoURL,
		"registration_date": u.RegistrationDate.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID.String(), Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// SearchUsers performs a multi_match search over username, email and names.
// Returns an empty result when Elasticsearch is not configured.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "email", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
