package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chylers/storefront-api/internal/notifications"
	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/enums"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

type inquiryStore interface {
	Create(ctx context.Context, inquiry *models.ContactInquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactInquiry, error)
	Save(ctx context.Context, inquiry *models.ContactInquiry) error
	List(ctx context.Context, params ListParams) ([]models.ContactInquiry, error)
}

type inquiryNotifier interface {
	Send(ctx context.Context, to string, name notifications.Template, data any) error
}

// Service handles contact form submissions and their admin triage.
type Service interface {
	Submit(ctx context.Context, req CreateInquiryRequest) (*InquiryDTO, error)
	List(ctx context.Context, params ListParams) ([]InquiryDTO, error)
	Update(ctx context.Context, id uuid.UUID, adminEmail string, req UpdateInquiryRequest) (*InquiryDTO, error)
}

type service struct {
	repo          inquiryStore
	notifier      inquiryNotifier
	businessEmail string
	logg          *logger.Logger
	now           func() time.Time
}

// NewService builds the contact service. Notifications go to businessEmail.
func NewService(repo inquiryStore, notifier inquiryNotifier, businessEmail string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inquiry repository is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if strings.TrimSpace(businessEmail) == "" {
		return nil, fmt.Errorf("business email is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:          repo,
		notifier:      notifier,
		businessEmail: businessEmail,
		logg:          logg,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Submit(ctx context.Context, req CreateInquiryRequest) (*InquiryDTO, error) {
	inquiryType := req.InquiryType
	if inquiryType == "" {
		inquiryType = enums.InquiryTypeGeneral
	}
	if !inquiryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inquiry type")
	}

	inquiry := &models.ContactInquiry{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       trimmed(req.Phone),
		Subject:     defaultSubject(req.Subject, inquiryType),
		Message:     strings.TrimSpace(req.Message),
		InquiryType: inquiryType,
		OrderNumber: trimmed(req.OrderNumber),
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inquiry")
	}

	data := notifications.ContactInquiryData{
		Name:        inquiry.Name,
		Email:       inquiry.Email,
		Phone:       deref(inquiry.Phone),
		InquiryType: string(inquiry.InquiryType),
		OrderNumber: deref(inquiry.OrderNumber),
		Subject:     inquiry.Subject,
		Message:     inquiry.Message,
	}
	if err := s.notifier.Send(ctx, s.businessEmail, notifications.TemplateContactInquiry, data); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "inquiry_id", inquiry.ID.String()), "contact.notification_failed", err)
	}
	return fromModel(inquiry), nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]InquiryDTO, error) {
	if params.Skip < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "skip must be non-negative")
	}
	if params.Limit == 0 {
		params.Limit = DefaultListLimit
	}
	if params.Limit < 1 || params.Limit > MaxListLimit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit must be between 1 and 100")
	}
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inquiries")
	}
	out := make([]InquiryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, adminEmail string, req UpdateInquiryRequest) (*InquiryDTO, error) {
	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("inquiry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inquiry")
	}

	if req.IsResolved != nil {
		inquiry.IsResolved = *req.IsResolved
		if inquiry.IsResolved {
			now := s.now()
			resolver := adminEmail
			inquiry.ResolvedAt = &now
			inquiry.ResolvedBy = &resolver
		}
	}
	if req.AdminNotes != nil {
		notes := *req.AdminNotes
		inquiry.AdminNotes = &notes
	}

	if err := s.repo.Save(ctx, inquiry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inquiry")
	}
	return fromModel(inquiry), nil
}

func defaultSubject(subject *string, kind enums.InquiryType) string {
	if subject != nil {
		if v := strings.TrimSpace(*subject); v != "" {
			return v
		}
	}
	name := string(kind)
	return strings.ToUpper(name[:1]) + name[1:] + " inquiry"
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	if out == "" {
		return nil
	}
	return &out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
