package models

import (
	"sort"
	"strings"
)

type Region int

const (
	RegionCentroOeste Region = iota + 1
	RegionNordeste
	RegionNorte
	RegionSudeste
	RegionSul
)

var regionNames = map[Region]string{
	RegionCentroOeste: "Centro-Oeste",
	RegionNordeste:    "Nordeste",
	RegionNorte:       "Norte",
	RegionSudeste:     "Sudeste",
	RegionSul:         "Sul",
}

var stateRegions = map[string]Region{
	"DF": RegionCentroOeste, "GO": RegionCentroOeste, "MT": RegionCentroOeste, "MS": RegionCentroOeste,

	"AL": RegionNordeste, "BA": RegionNordeste, "CE": RegionNordeste, "MA": RegionNordeste, "PB": RegionNordeste,
	"PE": RegionNordeste, "PI": RegionNordeste, "RN": RegionNordeste, "SE": RegionNordeste,

	"AC": RegionNorte, "AP": RegionNorte, "AM": RegionNorte, "PA": RegionNorte,
	"RO": RegionNorte, "RR": RegionNorte, "TO": RegionNorte,

	"ES": RegionSudeste, "MG": RegionSudeste, "RJ": RegionSudeste, "SP": RegionSudeste,

	"PR": RegionSul, "RS": RegionSul, "SC": RegionSul,
}

// RegionForState maps a two-letter state code to its shipping region.
// Codes are matched case-insensitively.
func RegionForState(code string) (Region, bool) {
	r, ok := stateRegions[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

func (r Region) Valid() bool {
	_, ok := regionNames[r]
	return ok
}

func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return "unknown"
}

type RegionInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	States []string `json:"states"`
}

// Regions returns the static state table grouped by region, ordered by number.
func Regions() []RegionInfo {
	grouped := make(map[Region][]string, len(regionNames))
	for state, region := range stateRegions {
		grouped[region] = append(grouped[region], state)
	}

	regions := make([]RegionInfo, 0, len(regionNames))
	for r := RegionCentroOeste; r <= RegionSul; r++ {
		states := grouped[r]
		sort.Strings(states)
		regions = append(regions, RegionInfo{Number: int(r), Name: r.String(), States: states})
	}
	return regions
}
