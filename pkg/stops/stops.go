// Package stops holds the static directory of Luas stops. The table mirrors
// the network as published by TII: 32 Red line stops and 35 Green line stops,
// each identified by a short code used in forecast API queries.
package stops

import (
	"sort"

	"luastrack/pkg/types"
)

// Stop is one entry in the directory. Immutable.
type Stop struct {
	Abbrev string
	Name   string
	Line   types.Line
}

var directory = []Stop{
	// Red line, The Point to Saggart/Tallaght
	{"TPT", "The Point", types.LineRed},
	{"SDK", "Spencer Dock", types.LineRed},
	{"MYS", "Mayor Square - NCI", types.LineRed},
	{"GDK", "George's Dock", types.LineRed},
	{"CON", "Connolly", types.LineRed},
	{"BUS", "Busáras", types.LineRed},
	{"ABB", "Abbey Street", types.LineRed},
	{"JER", "Jervis", types.LineRed},
	{"FOU", "Four Courts", types.LineRed},
	{"SMI", "Smithfield", types.LineRed},
	{"MUS", "Museum", types.LineRed},
	{"HEU", "Heuston", types.LineRed},
	{"JAM", "James's", types.LineRed},
	{"FAT", "Fatima", types.LineRed},
	{"RIA", "Rialto", types.LineRed},
	{"SUI", "Suir Road", types.LineRed},
	{"GOL", "Goldenbridge", types.LineRed},
	{"DRI", "Drimnagh", types.LineRed},
	{"BLA", "Blackhorse", types.LineRed},
	{"BLU", "Bluebell", types.LineRed},
	{"KYL", "Kylemore", types.LineRed},
	{"RED", "Red Cow", types.LineRed},
	{"KIN", "Kingswood", types.LineRed},
	{"BEL", "Belgard", types.LineRed},
	{"COO", "Cookstown", types.LineRed},
	{"HOS", "Hospital", types.LineRed},
	{"TAL", "Tallaght", types.LineRed},
	{"FET", "Fettercairn", types.LineRed},
	{"CVN", "Cheeverstown", types.LineRed},
	{"CIT", "Citywest Campus", types.LineRed},
	{"FOR", "Fortunestown", types.LineRed},
	{"SAG", "Saggart", types.LineRed},

	// Green line, Broombridge to Brides Glen
	{"BRO", "Broombridge", types.LineGreen},
	{"CAB", "Cabra", types.LineGreen},
	{"PHI", "Phibsborough", types.LineGreen},
	{"GRA", "Grangegorman", types.LineGreen},
	{"BRD", "Broadstone - DIT", types.LineGreen},
	{"DOM", "Dominick", types.LineGreen},
	{"PAR", "Parnell", types.LineGreen},
	{"OUP", "O'Connell - Upper", types.LineGreen},
	{"OGP", "O'Connell - GPO", types.LineGreen},
	{"MAR", "Marlborough", types.LineGreen},
	{"WES", "Westmoreland", types.LineGreen},
	{"TRY", "Trinity", types.LineGreen},
	{"DAW", "Dawson", types.LineGreen},
	{"STS", "St. Stephen's Green", types.LineGreen},
	{"HAR", "Harcourt", types.LineGreen},
	{"CHA", "Charlemont", types.LineGreen},
	{"RAN", "Ranelagh", types.LineGreen},
	{"BEE", "Beechwood", types.LineGreen},
	{"COW", "Cowper", types.LineGreen},
	{"MIL", "Milltown", types.LineGreen},
	{"WIN", "Windy Arbour", types.LineGreen},
	{"DUN", "Dundrum", types.LineGreen},
	{"BAL", "Balally", types.LineGreen},
	{"KIL", "Kilmacud", types.LineGreen},
	{"STI", "Stillorgan", types.LineGreen},
	{"SAN", "Sandyford", types.LineGreen},
	{"CPK", "Central Park", types.LineGreen},
	{"GLE", "Glencairn", types.LineGreen},
	{"GAL", "The Gallops", types.LineGreen},
	{"LEO", "Leopardstown Valley", types.LineGreen},
	{"BAW", "Ballyogan Wood", types.LineGreen},
	{"CCK", "Carrickmines", types.LineGreen},
	{"LAU", "Laughanstown", types.LineGreen},
	{"CHE", "Cherrywood", types.LineGreen},
	{"BRI", "Brides Glen", types.LineGreen},
}

// destinationCodes are the termini selectable as a destination filter.
var destinationCodes = map[string]bool{
	"BRI": true, "SAN": true, "PAR": true, "BRO": true,
	"TAL": true, "SAG": true, "CON": true, "TPT": true,
}

var byAbbrev = func() map[string]Stop {
	m := make(map[string]Stop, len(directory))
	for _, s := range directory {
		m[s.Abbrev] = s
	}
	return m
}()

// Exists reports whether code is a known stop abbreviation.
func Exists(code string) bool {
	_, ok := byAbbrev[code]
	return ok
}

// Lookup returns the stop for the given abbreviation.
func Lookup(code string) (Stop, bool) {
	s, ok := byAbbrev[code]
	return s, ok
}

// All returns every stop sorted by display name.
func All() []Stop {
	out := make([]Stop, len(directory))
	copy(out, directory)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Destinations returns the terminus stops selectable as a destination,
// sorted by display name.
func Destinations() []Stop {
	var out []Stop
	for _, s := range directory {
		if destinationCodes[s.Abbrev] {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsDestination reports whether code is one of the selectable termini.
func IsDestination(code string) bool {
	return destinationCodes[code]
}
