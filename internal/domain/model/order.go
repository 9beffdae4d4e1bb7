package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusRequested OrderStatus = "REQUESTED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

func ParseOrderStatus(v string) (OrderStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "REQUESTED":
		return OrderStatusRequested, nil
	case "CONFIRMED":
		return OrderStatusConfirmed, nil
	case "REJECTED":
		return OrderStatusRejected, nil
	case "CANCELLED":
		return OrderStatusCancelled, nil
	case "COMPLETED":
		return OrderStatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown order status: %q", v)
	}
}

// 終端ステータスかどうか。終端からの遷移は一切許さない。
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusRejected || s == OrderStatusCancelled || s == OrderStatusCompleted
}

// REQUESTEDかCONFIRMEDならアクティブ（出品を押さえている）扱い。
func (s OrderStatus) IsActive() bool {
	return s == OrderStatusRequested || s == OrderStatusConfirmed
}

// 注文。listingとbuyerは1:1参照。final_priceは確定時に入る。
// borrow_due_date / returned_at は貸出（LEND）のときだけ使う。
type Order struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"order_id"`
	ListingID     int64            `gorm:"not null;index" json:"listing_id"`
	BuyerID       int64            `gorm:"not null;index" json:"buyer_id"`
	OfferPrice    decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"offer_price"`
	FinalPrice    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"final_price,omitempty"`
	Status        OrderStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	OrderDate     time.Time        `gorm:"not null" json:"order_date"`
	ConfirmedAt   *time.Time       `json:"confirmed_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	BorrowDueDate *time.Time       `gorm:"index" json:"borrow_due_date,omitempty"`
	ReturnedAt    *time.Time       `json:"returned_at,omitempty"`
}

func (Order) TableName() string {
	// orderはSQLの予約語なので複数形にしておく
	return "orders"
}
