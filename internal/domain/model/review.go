package model

import "time"

// レビュー。完了した注文に対して1件だけ（order_idにユニーク制約）。
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"review_id"`
	OrderID   int64     `gorm:"not null;uniqueIndex" json:"order_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
