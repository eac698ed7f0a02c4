package myclinic

import (
	"myclinic-backend/lib/textutil"
	"myclinic-backend/pkg/htmlutil"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const sessionCookieName = "bemp-session"

// extractCsrfToken looks for the rails csrf meta tag first and falls back to
// the hidden authenticity_token form field.
func extractCsrfToken(doc *goquery.Document) string {
	token := strings.TrimSpace(doc.Find("meta[name=csrf-token]").First().AttrOr("content", ""))
	if token != "" {
		return token
	}
	return strings.TrimSpace(doc.Find("input[name=authenticity_token]").First().AttrOr("value", ""))
}

// extractSessionCookie returns the value of the session cookie out of a list
// of Set-Cookie header values.
func extractSessionCookie(setCookie []string) string {
	prefix := sessionCookieName + "="
	for _, header := range setCookie {
		header = strings.TrimSpace(header)
		if !strings.HasPrefix(header, prefix) {
			continue
		}
		value, _, _ := strings.Cut(header[len(prefix):], ";")
		return value
	}
	return ""
}

// customerName takes the text of the first plain <span> in the title markup,
// the title also carries icons and badges around it.
func customerName(title string) string {
	doc, err := htmlutil.ParseFragment(title)
	if err != nil {
		return htmlutil.CleanText(title)
	}

	name := ""
	doc.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if span.Children().Length() > 0 {
			return true
		}
		name = htmlutil.CleanText(span.Text())
		return name == ""
	})
	if name != "" {
		return name
	}
	return htmlutil.CleanText(doc.Text())
}

var phoneRegex = regexp.MustCompile(`\+?\d{0,2}\s?\(?\d{2}\)?\s?\d{4,5}-?\d{4}`)

// phoneFromDescription returns the digits of the first phone-like sequence in
// the event detail description.
func phoneFromDescription(description string) string {
	text := htmlutil.FragmentText(description)
	return textutil.DigitsOnly(phoneRegex.FindString(text))
}

// splitTimestamp slices "2025-10-24T11:00:00.000-03:00" into "2025-10-24" and
// "11:00" without interpreting the timezone.
func splitTimestamp(timestamp string) (date string, hhmm string) {
	date, clock, found := strings.Cut(timestamp, "T")
	if !found {
		return date, ""
	}
	if len(clock) > 5 {
		clock = clock[:5]
	}
	return date, clock
}

var birthDateRegex = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// parseBirthdayRows reads every three cell row of the birthday report, rows
// without a name or a date are skipped.
func parseBirthdayRows(doc *goquery.Document) []birthdayRow {
	var rows []birthdayRow
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Children().Length() != 3 || tr.ChildrenFiltered("td").Length() != 3 {
			return
		}

		name := ""
		tr.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			name = htmlutil.CleanText(a.Text())
			return name == ""
		})

		phone := ""
		whatsapp := tr.Find("a.fa-whatsapp, a:has(.fa-whatsapp)").First()
		if whatsapp.Length() > 0 {
			cell := whatsapp.Closest("td")
			if cell.Length() > 0 {
				phone = textutil.DigitsOnly(htmlutil.TextBefore(cell.Get(0), whatsapp.Get(0)))
			}
		}

		date := strings.TrimSpace(tr.ChildrenFiltered(`td[class^="date"]`).First().Text())
		if !birthDateRegex.MatchString(date) {
			date = ""
		}

		if name == "" || date == "" {
			return
		}
		rows = append(rows, birthdayRow{
			name:  name,
			phone: phone,
			date:  date,
		})
	})
	return rows
}
