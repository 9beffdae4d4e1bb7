package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AuditLogUsecase struct {
	audits repo.AuditLogRepository
}

func NewAuditLogUsecase(audits repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{audits: audits}
}

// 絞り込み条件。ゼロ値・空文字は条件に使わない。
type AuditLogQuery struct {
	ActorID      int64
	Action       string
	ResourceType string
	From         *time.Time
	To           *time.Time
	Limit        int
}

// 管理者向け：監査ログの一覧。新しい順で返す。
func (u *AuditLogUsecase) List(ctx context.Context, in AuditLogQuery) ([]model.AuditLog, error) {
	filter := repo.AuditLogFilter{
		From:  in.From,
		To:    in.To,
		Limit: in.Limit,
	}

	if in.ActorID > 0 {
		filter.ActorUserID = &in.ActorID
	}
	if in.Action != "" {
		action, err := model.ParseAuditAction(in.Action)
		if err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		filter.Action = &action
	}
	if in.ResourceType != "" {
		rt, err := model.ParseAuditResourceType(in.ResourceType)
		if err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
		}
		filter.ResourceType = &rt
	}

	items, err := u.audits.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
