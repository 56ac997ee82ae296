// Package parser extracts quantity, unit, and name from free-form ingredient
// lines and normalizes tag text.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	qtyRe      = regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?)\s*`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// units recognized after the quantity. Matched case-insensitively against the
// first remaining token.
var units = map[string]struct{}{
	"cup": {}, "cups": {},
	"tbsp": {}, "tablespoon": {}, "tablespoons": {},
	"tsp": {}, "teaspoon": {}, "teaspoons": {},
	"oz": {}, "ounce": {}, "ounces": {},
	"lb": {}, "lbs": {}, "pound": {}, "pounds": {},
	"g": {}, "gram": {}, "grams": {},
	"kg": {}, "ml": {}, "l": {}, "liter": {}, "liters": {},
	"pinch": {}, "dash": {},
	"clove": {}, "cloves": {},
	"slice": {}, "slices": {},
	"can": {}, "cans": {},
	"bunch": {}, "stick": {}, "sticks": {},
}

// Ingredient is the parsed form of one ingredient line.
// Quantity is 0 when the line carries none.
type Ingredient struct {
	Raw      string
	Quantity float64
	Unit     string
	Name     string
}

// Parse splits an ingredient line like "2 cups chopped onion" into quantity,
// unit, and name. Lines without a leading quantity keep the whole text as the
// name.
func Parse(line string) Ingredient {
	ing := Ingredient{Raw: strings.TrimSpace(line)}
	rest := ing.Raw

	if m := qtyRe.FindStringSubmatch(rest); m != nil {
		ing.Quantity = parseQuantity(m[1])
		rest = strings.TrimSpace(rest[len(m[0]):])
	}

	if ing.Quantity > 0 {
		fields := strings.SplitN(rest, " ", 2)
		if len(fields) > 0 {
			if _, ok := units[strings.ToLower(fields[0])]; ok {
				ing.Unit = strings.ToLower(fields[0])
				rest = ""
				if len(fields) == 2 {
					rest = strings.TrimSpace(fields[1])
				}
			}
		}
	}

	ing.Name = rest
	return ing
}

// parseQuantity handles decimals ("1.5"), fractions ("1/2"), and mixed
// numbers ("1 1/2").
func parseQuantity(s string) float64 {
	s = strings.TrimSpace(s)
	if whole, frac, ok := strings.Cut(s, " "); ok {
		return parseQuantity(whole) + parseQuantity(strings.TrimSpace(frac))
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Normalize lowercases text and collapses runs of non-alphanumerics into
// single hyphens, producing the stable form used to derive secondary ids.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonAlnumRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
