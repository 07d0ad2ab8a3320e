package util

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const CurrencySymbol = "₫"

var viPrinter = message.NewPrinter(language.Vietnamese)

// FormatPrice 以 vi-VN 千分位格式化金額, 不帶幣別
// 20000 -> "20.000"
// 小數四捨五入到整數 đồng
func FormatPrice(d decimal.Decimal) string {
	return viPrinter.Sprintf("%d", d.Round(0).IntPart())
}

// FormatCurrency 金額加上幣別, 例如 "55.000 ₫"
func FormatCurrency(d decimal.Decimal) string {
	return FormatPrice(d) + " " + CurrencySymbol
}
