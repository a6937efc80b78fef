package display

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// Supported locales and the createdAt layout each renders with. The
// layouts follow what browsers print for Date.toLocaleString.
var locales = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006, 3:04:05 PM"},
	{language.BritishEnglish, "02/01/2006, 15:04:05"},
	{language.Chinese, "2006/1/2 15:04:05"},
	{language.Japanese, "2006/1/2 15:04:05"},
	{language.German, "2.1.2006, 15:04:05"},
	{language.French, "02/01/2006 15:04:05"},
	{language.Russian, "02.01.2006, 15:04:05"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// Formatter renders values for one locale.
type Formatter struct {
	tag     language.Tag
	layout  string
	printer *message.Printer
	loc     *time.Location
}

// NewFormatter picks the closest supported locale to the BCP 47 (or POSIX,
// e.g. "zh_CN") name given; unknown names fall back to American English.
// Times are shown in loc, or time.Local when loc is nil.
func NewFormatter(locale string, loc *time.Location) *Formatter {
	want, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		want = language.AmericanEnglish
	}
	_, idx, _ := matcher.Match(want)
	if loc == nil {
		loc = time.Local
	}
	l := locales[idx]
	return &Formatter{
		tag:     l.tag,
		layout:  l.layout,
		printer: message.NewPrinter(l.tag),
		loc:     loc,
	}
}

// Tag is the matched locale.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Timestamp formats a createdAt value, returning it unchanged when it
// cannot be parsed.
func (f *Formatter) Timestamp(s string) string {
	t, err := models.ParseTimestamp(s)
	if err != nil {
		return s
	}
	return t.In(f.loc).Format(f.layout)
}

// Sprintf formats with locale-aware number rendering.
func (f *Formatter) Sprintf(format string, args ...any) string {
	return f.printer.Sprintf(format, args...)
}
