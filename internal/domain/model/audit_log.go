package model

import (
	"fmt"
	"strings"
	"time"
)

// 管理者操作の種類。
type AuditAction string

const (
	//出品ステータスを強制変更した操作。
	AuditActionOverrideListingStatus AuditAction = "OVERRIDE_LISTING_STATUS"

	//出品を強制削除した操作。
	AuditActionDeleteListing AuditAction = "DELETE_LISTING"

	//ユーザーステータスを変更した操作。
	AuditActionUpdateUserStatus AuditAction = "UPDATE_USER_STATUS"

	//ユーザーロールを変更した操作。
	AuditActionUpdateUserRole AuditAction = "UPDATE_USER_ROLE"

	//コメントを強制削除した操作。
	AuditActionDeleteComment AuditAction = "DELETE_COMMENT"
)

func ParseAuditAction(v string) (AuditAction, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "OVERRIDE_LISTING_STATUS":
		return AuditActionOverrideListingStatus, nil
	case "DELETE_LISTING":
		return AuditActionDeleteListing, nil
	case "UPDATE_USER_STATUS":
		return AuditActionUpdateUserStatus, nil
	case "UPDATE_USER_ROLE":
		return AuditActionUpdateUserRole, nil
	case "DELETE_COMMENT":
		return AuditActionDeleteComment, nil
	default:
		return "", fmt.Errorf("unknown audit action: %q", v)
	}
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceListing AuditResourceType = "listing"
	AuditResourceUser    AuditResourceType = "user"
	AuditResourceComment AuditResourceType = "comment"
)

func ParseAuditResourceType(v string) (AuditResourceType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "listing":
		return AuditResourceListing, nil
	case "user":
		return AuditResourceUser, nil
	case "comment":
		return AuditResourceComment, nil
	default:
		return "", fmt.Errorf("unknown audit resource type: %q", v)
	}
}

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//変更前後はJSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
