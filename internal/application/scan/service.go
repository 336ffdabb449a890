package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/geo/s2"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/application/notification"
	"github.com/petnfc-api/internal/domain"
	"github.com/petnfc-api/internal/pkg/id"
	"github.com/petnfc-api/internal/pkg/logger"
	"github.com/petnfc-api/internal/pkg/task"
)

// CellLevel is the S2 level used for scan cell tokens (roughly 1km cells).
const CellLevel = 13

// Meta carries request details recorded with each scan.
type Meta struct {
	IPAddress string
	UserAgent string
}

type Service interface {
	Check(ctx context.Context, petID string) (*domain.ScanResult, error)
	Scan(ctx context.Context, petID string, req domain.ScanRequest, meta Meta) (*domain.ScanResult, error)
	History(ctx context.Context, limit int, cursor string) ([]domain.ScanRecord, string, error)
}

type petStore interface {
	Get(ctx context.Context, petID string) (*domain.Pet, error)
	IncrementScanCount(ctx context.Context, petID string) error
}

type scanStore interface {
	Put(ctx context.Context, rec *domain.ScanRecord) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.ScanRecord, string, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type scanMailer interface {
	SendScanNotification(ctx context.Context, u *domain.User, petName string, at domain.Coordinates, link string) error
}

type ServiceDeps struct {
	PetRepo       petStore
	ScanRepo      scanStore
	UserRepo      userStore
	Notifications notification.Service
	Mailer        scanMailer
	Tasks         task.Scheduler
	MapLinkBase   string
	Now           func() time.Time
}

type service struct {
	pets          petStore
	scans         scanStore
	users         userStore
	notifications notification.Service
	mailer        scanMailer
	tasks         task.Scheduler
	mapLinkBase   string
	now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.Tasks == nil {
		deps.Tasks = task.Inline{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		pets:          deps.PetRepo,
		scans:         deps.ScanRepo,
		users:         deps.UserRepo,
		notifications: deps.Notifications,
		mailer:        deps.Mailer,
		tasks:         deps.Tasks,
		mapLinkBase:   deps.MapLinkBase,
		now:           deps.Now,
	}
}

func (s *service) Check(ctx context.Context, petID string) (*domain.ScanResult, error) {
	p, err := s.pets.Get(ctx, petID)
	if err != nil {
		return nil, err
	}
	return &domain.ScanResult{PetID: p.UniqueID, HasOwner: p.HasOwner()}, nil
}

// Scan records a tag scan. For an owned pet the scan count is bumped and the
// notification created before returning; the owner email goes out in the
// background.
func (s *service) Scan(ctx context.Context, petID string, req domain.ScanRequest, meta Meta) (*domain.ScanResult, error) {
	p, err := s.pets.Get(ctx, petID)
	if err != nil {
		return nil, err
	}

	scannedAt := s.now().UTC()
	rec := &domain.ScanRecord{
		ScanID:     id.NewAt(scannedAt),
		PetID:      p.UniqueID,
		OwnerID:    p.OwnerID,
		Latitude:   req.Coordinates.Latitude,
		Longitude:  req.Coordinates.Longitude,
		CellToken:  CellToken(req.Coordinates),
		DeviceInfo: req.DeviceInfo,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		ScannedAt:  scannedAt,
	}
	if err := s.scans.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("record scan: %w", err)
	}

	result := &domain.ScanResult{PetID: p.UniqueID, HasOwner: p.HasOwner()}
	if !p.HasOwner() {
		return result, nil
	}

	if err := s.pets.IncrementScanCount(ctx, p.UniqueID); err != nil {
		return nil, fmt.Errorf("increment scan count: %w", err)
	}

	ownerID := *p.OwnerID
	link := MapLink(s.mapLinkBase, req.Coordinates)
	n, err := s.notifications.Create(ctx, ownerID, Message(p.Name, link))
	if err != nil {
		return nil, err
	}
	result.NotificationID = n.NotificationID

	petName, at := p.Name, req.Coordinates
	s.tasks.Go(ctx, "scan.email", func(ctx context.Context) error {
		owner, err := s.users.Get(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("load owner: %w", err)
		}
		return s.mailer.SendScanNotification(ctx, owner, petName, at, link)
	})

	logger.Info(ctx, "pet scanned",
		zap.String("pet_id", p.UniqueID), zap.String("cell", rec.CellToken))
	return result, nil
}

func (s *service) History(ctx context.Context, limit int, cursor string) ([]domain.ScanRecord, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.scans.ScanPage(ctx, int32(limit), cursor)
}

// CellToken returns the token of the level-13 S2 cell containing c.
func CellToken(c domain.Coordinates) string {
	ll := s2.LatLngFromDegrees(c.Latitude, c.Longitude)
	return s2.CellIDFromLatLng(ll).Parent(CellLevel).ToToken()
}

func MapLink(base string, c domain.Coordinates) string {
	return fmt.Sprintf("%s%f,%f", base, c.Latitude, c.Longitude)
}

func Message(petName, link string) string {
	return fmt.Sprintf("Your pet %s has been scanned. See where: %s", petName, link)
}
