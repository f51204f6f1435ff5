// Package translate provides the locale-aware printer used for user-facing
// messages and error strings.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("tripipe: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From renders a message for the user's locale. Numbers passed as %d are
// grouped by locale, so callers format line numbers and register values
// themselves and pass them as %v.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
