package parser

import (
	"regexp"
	"strings"
)

var (
	cdataRe     = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	titleDateRe = regexp.MustCompile(`(?i)\s*\([a-z]+\s+\d{1,2},\s+\d{4}\s+\d{1,2}:\d{2}(?:am|pm)\)\s*$`)
	zoomRe      = regexp.MustCompile(`(?i)https://[^\s<"]*zoom\.us[^\s<"]*`)
	locationRe  = regexp.MustCompile(`(?mi)in-person:\s*(.+?)(?:$|\n|Zoom)`)
)

// Слова, которые остаются в нижнем регистре внутри заголовка.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "for": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "nor": true, "of": true,
	"on": true, "or": true, "such": true, "that": true, "the": true,
	"to": true, "up": true, "with": true,
}

// cleanDescription снимает CDATA-обертку и HTML-разметку из описания.
func cleanDescription(description string) string {
	description = cdataRe.ReplaceAllString(description, "$1")
	description = tagRe.ReplaceAllString(description, "")
	return strings.TrimSpace(description)
}

// cleanTitle убирает хвостовую скобку с датой и временем
// вида " (December 17, 2025 12:00pm)" из заголовка события.
func cleanTitle(title string) string {
	return strings.TrimSpace(titleDateRe.ReplaceAllString(title, ""))
}

// titlecase приводит заголовок к Title Case, сохраняя артикли
// и служебные слова в нижнем регистре. Первое и последнее слова
// капитализируются всегда.
func titlecase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if i == 0 || i == len(words)-1 || !smallWords[strings.ToLower(word)] {
			words[i] = capitalize(word)
		} else {
			words[i] = strings.ToLower(word)
		}
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// extractZoomURL находит ссылку на Zoom в тексте описания.
func extractZoomURL(description string) string {
	return zoomRe.FindString(description)
}

// extractLocation извлекает очное место проведения из описания
// по строке "In-person: ...". Возвращает основную часть до запятой.
func extractLocation(description string) string {
	m := locationRe.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	location := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[1]), ","))
	if i := strings.IndexByte(location, ','); i >= 0 {
		location = strings.TrimSpace(location[:i])
	}
	return location
}
