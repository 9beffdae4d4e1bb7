package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuditLogList_BuildsFilter(t *testing.T) {
	audits := new(AuditRepoMock)
	uc := usecase.NewAuditLogUsecase(audits)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	audits.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.ActorUserID != nil && *f.ActorUserID == 100 &&
			f.Action != nil && *f.Action == model.AuditActionUpdateUserStatus &&
			f.ResourceType != nil && *f.ResourceType == model.AuditResourceUser &&
			f.From != nil && f.From.Equal(from) &&
			f.To != nil && f.To.Equal(to) &&
			f.Limit == 50
	})).Return([]model.AuditLog{{ID: 1}, {ID: 2}}, nil)

	items, err := uc.List(context.Background(), usecase.AuditLogQuery{
		ActorID:      100,
		Action:       "update_user_status",
		ResourceType: "User",
		From:         &from,
		To:           &to,
		Limit:        50,
	})

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	audits.AssertExpectations(t)
}

func TestAuditLogList_NoConditions(t *testing.T) {
	audits := new(AuditRepoMock)
	uc := usecase.NewAuditLogUsecase(audits)

	//ゼロ値はフィルタに乗せない
	audits.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.ActorUserID == nil && f.Action == nil && f.ResourceType == nil &&
			f.From == nil && f.To == nil
	})).Return([]model.AuditLog{}, nil)

	items, err := uc.List(context.Background(), usecase.AuditLogQuery{})

	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestAuditLogList_InvalidAction(t *testing.T) {
	audits := new(AuditRepoMock)
	uc := usecase.NewAuditLogUsecase(audits)

	_, err := uc.List(context.Background(), usecase.AuditLogQuery{Action: "DROP_TABLE"})

	assertErrContains(t, err, "invalid action")
	audits.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAuditLogList_InvalidResourceType(t *testing.T) {
	audits := new(AuditRepoMock)
	uc := usecase.NewAuditLogUsecase(audits)

	_, err := uc.List(context.Background(), usecase.AuditLogQuery{ResourceType: "invoice"})

	assertErrContains(t, err, "invalid resource_type")
}
