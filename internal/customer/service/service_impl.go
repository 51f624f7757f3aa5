package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cablebill/internal/clock"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p Params) customerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (*customerdomain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, customerdomain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && !strings.Contains(email, "@") {
		return nil, customerdomain.ErrInvalidEmail
	}

	now := s.clock.Now()
	record := customerdomain.Customer{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		BoxNumber: strings.TrimSpace(req.BoxNumber),
		BoxStatus: customerdomain.BoxStatusInactive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Update(ctx context.Context, id string, req customerdomain.UpdateCustomerRequest) (*customerdomain.Customer, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var record customerdomain.Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("id = ?", parsed).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customerdomain.ErrNotFound
			}
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return customerdomain.ErrInvalidName
			}
			record.Name = name
		}
		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email != "" && !strings.Contains(email, "@") {
				return customerdomain.ErrInvalidEmail
			}
			record.Email = email
		}
		if req.Phone != nil {
			record.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Address != nil {
			record.Address = strings.TrimSpace(*req.Address)
		}
		record.UpdatedAt = s.clock.Now()

		return tx.WithContext(ctx).Save(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*customerdomain.Customer, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var record customerdomain.Customer
	if err := s.db.WithContext(ctx).Where("id = ?", parsed).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) List(ctx context.Context, req customerdomain.ListCustomerRequest) (customerdomain.ListCustomerResponse, error) {
	query := s.db.WithContext(ctx).Model(&customerdomain.Customer{})
	if name := strings.TrimSpace(req.Name); name != "" {
		query = query.Where("name LIKE ?", name+"%")
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		query = query.Where("email = ?", email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return customerdomain.ListCustomerResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	var records []customerdomain.Customer
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(int(pageSize)).
		Offset(int(offset)).
		Find(&records).Error; err != nil {
		return customerdomain.ListCustomerResponse{}, err
	}

	return customerdomain.ListCustomerResponse{Customers: records, Total: total}, nil
}

func parseID(id string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return 0, customerdomain.ErrInvalidID
	}
	return parsed, nil
}
