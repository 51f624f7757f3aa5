package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cablebill/internal/audit/domain"
	"github.com/smallbiznis/cablebill/internal/auditcontext"
	obsctx "github.com/smallbiznis/cablebill/internal/observability/context"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Log writes an audit entry, attributing it to the actor and request
// attributes stored on the context. Failures are logged and swallowed.
func (s *Service) Log(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) {
	actorType, actorID := obsctx.ActorFromContext(ctx)
	if actorType == "" {
		actorType = string(domain.ActorTypeSystem)
	}

	entry := &domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  actorType,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap{},
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := auditcontext.UserAgentFromContext(ctx); ua != "" {
		entry.UserAgent = &ua
	}
	if customerID := auditcontext.CustomerIDFromContext(ctx); customerID != "" {
		entry.Metadata["customer_id"] = customerID
	}
	for key, value := range metadata {
		if key == "" {
			continue
		}
		entry.Metadata[key] = value
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("failed to write audit entry",
			zap.String("action", action),
			zap.String("target_type", targetType),
			zap.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, s.db, filter)
}
