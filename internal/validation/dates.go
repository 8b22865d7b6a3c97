package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// ISODate is the layout of min_date and max_date options.
const ISODate = "2006-01-02"

// fallbackLayouts are tried in order when a date field has no explicit format:
// ISO, DD/MM/YYYY, MM/DD/YYYY, DD-MM-YYYY.
var fallbackLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"1/2/2006",
	"2-1-2006",
}

var errUnrecognizedDate = errors.New("unrecognized date format")

// parseDate parses text with an explicit format, or with the fallback layouts.
// A format containing '%' is a strftime format; anything else is a Go layout.
func parseDate(text, format string) (time.Time, error) {
	if format != "" {
		if strings.Contains(format, "%") {
			return strftime.Parse(format, text)
		}
		return time.Parse(format, text)
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnrecognizedDate
}
