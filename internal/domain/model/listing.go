package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "AVAILABLE"
	ListingStatusReserved  ListingStatus = "RESERVED"
	ListingStatusSold      ListingStatus = "SOLD"
	ListingStatusBorrowed  ListingStatus = "BORROWED"
)

type ListingCondition string

const (
	ConditionNew     ListingCondition = "NEW"
	ConditionLikeNew ListingCondition = "LIKE_NEW"
	ConditionUsed    ListingCondition = "USED"
)

type ListingType string

const (
	ListingTypeSell ListingType = "SELL"
	ListingTypeLend ListingType = "LEND"
)

func ParseListingStatus(v string) (ListingStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "AVAILABLE":
		return ListingStatusAvailable, nil
	case "RESERVED":
		return ListingStatusReserved, nil
	case "SOLD":
		return ListingStatusSold, nil
	case "BORROWED":
		return ListingStatusBorrowed, nil
	default:
		return "", fmt.Errorf("unknown listing status: %q", v)
	}
}

// "like-new" のようなハイフン表記も受ける（旧データ対策）
func ParseListingCondition(v string) (ListingCondition, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(v), "-", "_"))
	switch normalized {
	case "NEW":
		return ConditionNew, nil
	case "LIKE_NEW":
		return ConditionLikeNew, nil
	case "USED":
		return ConditionUsed, nil
	default:
		return "", fmt.Errorf("unknown listing condition: %q", v)
	}
}

func ParseListingType(v string) (ListingType, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "SELL":
		return ListingTypeSell, nil
	case "LEND":
		return ListingTypeLend, nil
	default:
		return "", fmt.Errorf("unknown listing type: %q", v)
	}
}

// 出品。statusは作成時AVAILABLE固定で、以後は注文ライフサイクル
// （または管理者操作）だけが変更する。
type Listing struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"listing_id"`
	SellerID    int64            `gorm:"not null;index" json:"seller_id"`
	CategoryID  int64            `gorm:"not null;index" json:"category_id"`
	Title       string           `gorm:"type:varchar(200);not null" json:"title"`
	Description string           `gorm:"type:text" json:"description,omitempty"`
	Condition   ListingCondition `gorm:"type:varchar(20);not null" json:"condition"`
	ListingType ListingType      `gorm:"type:varchar(10);not null" json:"listing_type"`
	ListPrice   decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"list_price"`
	Status      ListingStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
