package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

// 現在時刻の取得。テストで固定できるように注入する。
type Clock interface {
	Now() time.Time
}

// 価格の共通バリデーション。
// 非負・整数部8桁以内・小数部2桁以内。
func validPrice(p decimal.Decimal) bool {
	if p.IsNegative() {
		return false
	}
	// 小数2桁で丸めて値が変わるなら桁あふれ
	if !p.Equal(p.Round(2)) {
		return false
	}
	// 10^8 未満
	return p.LessThan(decimal.New(1, 8))
}
