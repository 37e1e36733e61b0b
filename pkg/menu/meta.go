package menu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	dateRangePattern = regexp.MustCompile(`(?i)(\d{1,2})\s+al\s+(\d{1,2})\s+(?:de\s+)?` +
		`(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)` +
		`(?:\s+(?:de\s+)?(\d{4}))?`)
	weekPattern = regexp.MustCompile(`(?i)semana[- ]?(\d+)`)
)

// PageTitle returns the document title without the site suffix, falling
// back to og:title and then the first h1.
func PageTitle(doc *goquery.Document) string {
	if title := cleanText(doc.Find("title").First().Text()); title != "" {
		title, _, _ = strings.Cut(title, " - ")
		return strings.TrimSpace(title)
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return cleanText(doc.Find("h1").First().Text())
}

// DateRange finds the "9 al 13 de febrero" style range the menu covers. It
// reads h1 and h2 headings first and then the meta description. The empty
// string means no range was found.
func DateRange(doc *goquery.Document) string {
	var found string
	doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = formatDateRange(s.Text())
		return found == ""
	})
	if found != "" {
		return found
	}
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	return formatDateRange(desc)
}

func formatDateRange(text string) string {
	m := dateRangePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	out := fmt.Sprintf("%s al %s de %s", m[1], m[2], strings.ToLower(m[3]))
	if m[4] != "" {
		out += " de " + m[4]
	}
	return out
}

// WeekNumber extracts the week from text such as a menu URL
// ("menu-semana-7") or title ("Semana 7").
func WeekNumber(text string) (int, bool) {
	m := weekPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
