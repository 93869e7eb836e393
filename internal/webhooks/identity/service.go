package identitywebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/cartworks/storefront-backend/internal/users"
	"github.com/cartworks/storefront-backend/pkg/db/models"
	"github.com/cartworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/cartworks/storefront-backend/pkg/errors"
	"github.com/cartworks/storefront-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	WithTx(tx *gorm.DB) *users.Repository
}

// Event is the provider's user lifecycle notification, decoded from the
// webhook body after signature verification.
type Event struct {
	ID   string                 `json:"id"`
	Type enums.IdentityEventType `json:"type"`
	User EventUser              `json:"user"`
}

// EventUser carries the provider's user snapshot.
type EventUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// VerifySignature checks the hex HMAC-SHA256 of the raw body against the
// shared signing secret. Comparison is constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	provided := strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	return hmac.Equal([]byte(expected), []byte(provided))
}

// Service reacts to verified identity provider events.
type Service struct {
	userRepo userRepository
	tx       txRunner
	logg     *logger.Logger
}

// NewService builds the webhook event handler.
func NewService(userRepo userRepository, tx txRunner, logg *logger.Logger) (*Service, error) {
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{userRepo: userRepo, tx: tx, logg: logg}, nil
}

// HandleEvent applies one lifecycle event. Unknown event types are ignored so
// the provider can add types without breaking deliveries.
func (s *Service) HandleEvent(ctx context.Context, event Event) error {
	if event.User.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event user id required")
	}

	switch event.Type {
	case enums.IdentityEventUserCreated, enums.IdentityEventUserUpdated:
		return s.upsertUser(ctx, event.User)
	case enums.IdentityEventUserDeleted:
		return s.deleteUser(ctx, event.User.ID)
	default:
		if s.logg != nil {
			skipCtx := s.logg.WithFields(ctx, map[string]any{"event_type": string(event.Type)})
			s.logg.Info(skipCtx, "identity.webhook.ignored")
		}
		return nil
	}
}

func (s *Service) upsertUser(ctx context.Context, snapshot EventUser) error {
	user := &models.User{
		ID:          snapshot.ID,
		Email:       snapshot.Email,
		DisplayName: snapshot.DisplayName,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert user mirror")
	}
	return nil
}

// deleteUser removes the mirror row and every user-scoped row in one
// transaction. Errors are collected so the log shows everything that failed,
// not just the first table.
func (s *Service) deleteUser(ctx context.Context, userID string) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var errs error
		if err := tx.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			errs = multierr.Append(errs, err)
		}
		if err := tx.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Order{}).Error; err != nil {
			errs = multierr.Append(errs, err)
		}
		if err := s.userRepo.WithTx(tx).Delete(ctx, userID); err != nil {
			errs = multierr.Append(errs, err)
		}
		return errs
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user data")
	}
	if s.logg != nil {
		doneCtx := s.logg.WithFields(ctx, map[string]any{"user_id": userID})
		s.logg.Info(doneCtx, "identity.webhook.user_deleted")
	}
	return nil
}
