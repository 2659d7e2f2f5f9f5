package telemetry

import (
	"regexp"
	"strings"
	"unicode"
)

var markupRe = regexp.MustCompile(`<[^>]*>?`)

// SanitizeDeviceID чистит присланный идентификатор перед использованием
// как ключ хранилища: срезает разметку, управляющие символы и пробелы.
// Политика — cleanse, not reject: грязный id чистим, а не отклоняем.
func SanitizeDeviceID(raw string) string {
	s := markupRe.ReplaceAllString(raw, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '<', '>', '&', '"', '\'', '`':
			return -1
		}
		return r
	}, s)
	return s
}
