package render

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// priceNoticeContact replaces the price label when a product has none.
const priceNoticeContact = "Liên hệ để biết giá"

var pricePrinter = message.NewPrinter(language.Vietnamese)

// FormatPrice renders a money amount with Vietnamese digit grouping and the
// currency code, e.g. 150000 VND -> "150.000 VND".
func FormatPrice(value float64, currency string) string {
	return fmt.Sprintf("%s %s", pricePrinter.Sprintf("%d", int64(math.Round(value))), currency)
}
