package profile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// knownCities are the major Romanian settlements a location may name.
var knownCities = []string{
	"București",
	"Cluj-Napoca",
	"Timișoara",
	"Iași",
	"Constanța",
	"Craiova",
	"Brașov",
	"Galați",
	"Ploiești",
	"Oradea",
	"Brăila",
	"Arad",
	"Pitești",
	"Sibiu",
	"Bacău",
	"Târgu Mureș",
	"Baia Mare",
	"Buzău",
	"Botoșani",
	"Satu Mare",
	"Râmnicu Vâlcea",
	"Drobeta-Turnu Severin",
	"Suceava",
	"Piatra Neamț",
	"Târgu Jiu",
	"Târgoviște",
	"Focșani",
	"Bistrița",
	"Reșița",
	"Tulcea",
	"Călărași",
	"Giurgiu",
	"Alba Iulia",
	"Deva",
	"Hunedoara",
	"Zalău",
	"Sfântu Gheorghe",
	"Bârlad",
	"Vaslui",
	"Roman",
	"Turda",
	"Mediaș",
	"Slobozia",
	"Alexandria",
}

// regionTokens accept addresses that name the country, a Bucharest sector or a county.
var regionTokens = []string{"românia", "romania", "sector", "județ", "judet"}

var foldedLocationTerms = func() []string {
	terms := make([]string, 0, len(knownCities)+len(regionTokens))
	for _, c := range knownCities {
		terms = append(terms, foldLocation(c))
	}
	for _, t := range regionTokens {
		terms = append(terms, foldLocation(t))
	}
	return terms
}()

// isKnownLocation reports whether loc mentions an allow-listed city or region token.
func isKnownLocation(loc string) bool {
	folded := foldLocation(loc)
	for _, term := range foldedLocationTerms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

// foldLocation lowercases s and strips combining marks, so "Iași" and "iasi"
// compare equal.
func foldLocation(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
