package model

import "time"

// 出品へのコメント。parent_idがあれば返信（スレッドは1段のみ）。
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"comment_id"`
	ListingID int64     `gorm:"not null;index" json:"listing_id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ParentID  *int64    `gorm:"index" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
