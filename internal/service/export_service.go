package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"alcyxob/fittrack/internal/domain"
	"alcyxob/fittrack/internal/repository"
	"alcyxob/fittrack/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const exportContentType = "application/json"

var (
	ErrExportDisabled = errors.New("data export is not configured")
	ErrExportFailed   = errors.New("failed to export user data")
)

// ExportSnapshot is the document written to object storage.
type ExportSnapshot struct {
	ExportedAt time.Time        `json:"exportedAt"`
	User       *domain.User     `json:"user"`
	Workouts   []domain.Workout `json:"workouts"`
	Goals      []domain.Goal    `json:"goals"`
}

// ExportResult points at an uploaded snapshot.
type ExportResult struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ExportService interface {
	ExportUserData(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error)
}

type exportService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	goalRepo    repository.GoalRepository
	fileStorage storage.FileStorage
	urlExpiry   time.Duration
	now         func() time.Time
}

// NewExportService creates the export service. A nil fileStorage disables exports.
func NewExportService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	goalRepo repository.GoalRepository,
	fileStorage storage.FileStorage,
) ExportService {
	return &exportService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		goalRepo:    goalRepo,
		fileStorage: fileStorage,
		urlExpiry:   storage.DefaultPresignedURLExpiry,
		now:         time.Now,
	}
}

func (s *exportService) ExportUserData(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error) {
	if s.fileStorage == nil {
		return nil, ErrExportDisabled
	}

	snapshot := ExportSnapshot{ExportedAt: s.now().UTC()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := s.userRepo.GetByID(gctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		user.PasswordHash = ""
		snapshot.User = user
		return nil
	})
	g.Go(func() error {
		workouts, err := s.workoutRepo.GetByUserID(gctx, userID, 0)
		snapshot.Workouts = workouts
		return err
	})
	g.Go(func() error {
		goals, err := s.goalRepo.GetByUserID(gctx, userID)
		snapshot.Goals = goals
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	objectKey := path.Join("exports", userID.Hex(), uuid.NewString()+".json")
	if err := s.fileStorage.PutObject(ctx, objectKey, exportContentType, body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.urlExpiry)
	if err != nil {
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			log.Warnf("remove unreachable export %s: %s", objectKey, delErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	log.WithFields(log.Fields{"user_id": userID.Hex(), "key": objectKey}).Info("user data exported")
	return &ExportResult{
		ObjectKey:   objectKey,
		DownloadURL: url,
		ExpiresAt:   s.now().Add(s.urlExpiry).UTC(),
	}, nil
}
