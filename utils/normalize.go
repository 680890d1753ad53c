package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.BrazilianPortuguese)

// TitleTrim normaliza campos de endereço: espaços aparados e
// capitalização de título.
func TitleTrim(value string) string {
	return titleCaser.String(strings.TrimSpace(value))
}

// NormalizeCountry padroniza as variações comuns de "Brasil".
func NormalizeCountry(value string) string {
	value = TitleTrim(value)
	switch strings.ToLower(value) {
	case "brasil", "brazil", "br":
		return "Brasil"
	}
	return value
}
