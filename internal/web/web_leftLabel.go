package web

import (
	"log"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const leftKey = "%d left to do"

var leftPrinter = newLeftPrinter()

func newLeftPrinter() *message.Printer {
	builder := catalog.NewBuilder()
	err := builder.Set(language.English, leftKey,
		plural.Selectf(1, "%d",
			"=0", "Nothing left to do",
			"=1", "1 thing left to do",
			"other", "%[1]d things left to do",
		))
	if err != nil {
		log.Printf("[WEB]: Warning: failed to register plural messages: %v", err)
	}
	return message.NewPrinter(language.English, message.Catalog(builder))
}

// leftLabel renders the remaining count for the list page
func leftLabel(left int64) string {
	return leftPrinter.Sprintf(leftKey, int(left))
}
