package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	dbtypes "github.com/chylers/storefront-api/pkg/db/types"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"gorm.io/gorm"
)

type infoStore interface {
	First(ctx context.Context) (*models.BusinessInfo, error)
	CreateInfo(ctx context.Context, info *models.BusinessInfo) error
	SaveInfo(ctx context.Context, info *models.BusinessInfo) error
	ListActiveLinks(ctx context.Context) ([]models.SocialMediaLink, error)
	CreateLink(ctx context.Context, link *models.SocialMediaLink) error
}

// Service exposes the business profile.
type Service interface {
	Info(ctx context.Context) (*InfoView, error)
	SocialLinks(ctx context.Context) ([]SocialLinkView, error)
	AddSocialLink(ctx context.Context, req SocialLinkRequest) (*SocialLinkView, error)
	UpdateInfo(ctx context.Context, req UpdateInfoRequest) (*InfoView, error)
}

type service struct {
	repo infoStore
	loc  *time.Location
	now  func() time.Time
}

// NewService builds the business service. Opening hours are evaluated in loc.
func NewService(repo infoStore, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	if loc == nil {
		return nil, fmt.Errorf("timezone is required")
	}
	return &service{repo: repo, loc: loc, now: time.Now}, nil
}

func (s *service) Info(ctx context.Context) (*InfoView, error) {
	info, err := s.loadOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, info)
}

func (s *service) SocialLinks(ctx context.Context) ([]SocialLinkView, error) {
	rows, err := s.repo.ListActiveLinks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list social links")
	}
	out := make([]SocialLinkView, 0, len(rows))
	for _, row := range rows {
		out = append(out, newSocialLinkView(row))
	}
	return out, nil
}

func (s *service) AddSocialLink(ctx context.Context, req SocialLinkRequest) (*SocialLinkView, error) {
	link := &models.SocialMediaLink{
		Platform:     strings.ToLower(strings.TrimSpace(req.Platform)),
		URL:          strings.TrimSpace(req.URL),
		Username:     req.Username,
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	if link.Platform == "" || link.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "platform and url are required")
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create social link")
	}
	view := newSocialLinkView(*link)
	return &view, nil
}

func (s *service) UpdateInfo(ctx context.Context, req UpdateInfoRequest) (*InfoView, error) {
	info, err := s.loadOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	setString(&info.CompanyName, req.CompanyName)
	setString(&info.Address, req.Address)
	setString(&info.Phone, req.Phone)
	setString(&info.Email, req.Email)
	setString(&info.WillCallLocation, req.WillCallLocation)
	setString(&info.WillCallHours, req.WillCallHours)
	setString(&info.AboutUs, req.AboutUs)
	setString(&info.Story, req.Story)
	setString(&info.Mission, req.Mission)
	if req.Hours != nil {
		info.Hours = *req.Hours
	}
	if req.Certifications != nil {
		info.Certifications = dbtypes.StringList(append([]string{}, (*req.Certifications)...))
	}
	if req.Values != nil {
		info.Values = dbtypes.StringList(append([]string{}, (*req.Values)...))
	}
	if req.FoundedYear != nil {
		info.FoundedYear = *req.FoundedYear
	}

	if err := s.repo.SaveInfo(ctx, info); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update business info")
	}
	return s.view(ctx, info)
}

func (s *service) loadOrCreate(ctx context.Context) (*models.BusinessInfo, error) {
	info, err := s.repo.First(ctx)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load business info")
	}
	info = DefaultInfo()
	if err := s.repo.CreateInfo(ctx, info); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create business info")
	}
	return info, nil
}

func (s *service) view(ctx context.Context, info *models.BusinessInfo) (*InfoView, error) {
	links, err := s.SocialLinks(ctx)
	if err != nil {
		return nil, err
	}
	open, next := OpenStatus(s.now(), s.loc)

	hours := info.Hours
	if hours == nil {
		hours = map[string]string{}
	}
	view := &InfoView{
		CompanyName:      info.CompanyName,
		Address:          info.Address,
		Phone:            info.Phone,
		Email:            info.Email,
		Hours:            hours,
		WillCallLocation: info.WillCallLocation,
		WillCallHours:    info.WillCallHours,
		Certifications:   append([]string{}, info.Certifications...),
		AboutUs:          info.AboutUs,
		Story:            optional(info.Story),
		Mission:          optional(info.Mission),
		Values:           append([]string{}, info.Values...),
		FoundedYear:      info.FoundedYear,
		SocialMediaLinks: links,
		IsOpenNow:        open,
	}
	if !open {
		view.NextOpenTime = &next
	}
	return view, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
