// Package zones centralizes zone-name canonicalization. Zone names come
// from several data sources with inconsistent accents and casing
// ("ARÉVALO" vs "AREVALO" vs "Arévalo"); every comparison in the code
// base goes through Canonical so the spellings collapse to one key.
package zones

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Canonical returns the canonical key for a zone name: accents stripped,
// lowercased, interior whitespace collapsed to single spaces.
func Canonical(name string) string {
	out, _, err := transform.String(stripAccents, name)
	if err != nil {
		out = name
	}
	out = strings.ToLower(out)
	return strings.Join(strings.Fields(out), " ")
}

// Equal reports whether two zone names refer to the same zone after
// canonicalization.
func Equal(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// Municipalities is the fixed seed list for the department, in the
// official spelling used by the map frontend.
var Municipalities = []string{
	"ACEGUÁ",
	"ARBOLITO",
	"ARÉVALO",
	"BAÑADO DE MEDINA",
	"CERRO DE LAS CUENTAS",
	"FRAILE MUERTO",
	"ISIDORO NOBLÍA",
	"LAGO MERÍN",
	"LAS CAÑAS",
	"MELO",
	"Melo (GBB)",
	"Melo (GCB)",
	"NOBLÍA",
	"PLÁCIDO ROSAS",
	"RÍO BRANCO",
	"TUPAMBAÉ",
}
