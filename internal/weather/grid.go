package weather

import "strings"

// GridPoint is a cell in the KMA forecast grid. Name holds the canonical
// city name every alias resolves to.
type GridPoint struct {
	NX   int
	NY   int
	Name string
}

type cityEntry struct {
	Alias string
	Point GridPoint
}

// cityTable maps city names and their transliterations to KMA grid cells.
// Declaration order is the documented tie-break order for substring
// extraction (see userweather.ExtractCity).
var cityTable = []cityEntry{
	{"서울", GridPoint{60, 127, "서울"}},
	{"Seoul", GridPoint{60, 127, "서울"}},
	{"부산", GridPoint{98, 76, "부산"}},
	{"Busan", GridPoint{98, 76, "부산"}},
	{"대구", GridPoint{89, 90, "대구"}},
	{"Daegu", GridPoint{89, 90, "대구"}},
	{"인천", GridPoint{55, 124, "인천"}},
	{"Incheon", GridPoint{55, 124, "인천"}},
	{"광주", GridPoint{58, 74, "광주"}},
	{"Gwangju", GridPoint{58, 74, "광주"}},
	{"대전", GridPoint{67, 100, "대전"}},
	{"Daejeon", GridPoint{67, 100, "대전"}},
	{"울산", GridPoint{102, 84, "울산"}},
	{"Ulsan", GridPoint{102, 84, "울산"}},
	{"세종", GridPoint{66, 103, "세종"}},
	{"Sejong", GridPoint{66, 103, "세종"}},
	{"수원", GridPoint{60, 121, "수원"}},
	{"Suwon", GridPoint{60, 121, "수원"}},
	{"제주", GridPoint{52, 38, "제주"}},
	{"Jeju", GridPoint{52, 38, "제주"}},
}

var cityIndex = func() map[string]GridPoint {
	idx := make(map[string]GridPoint, len(cityTable))
	for _, entry := range cityTable {
		idx[entry.Alias] = entry.Point
	}
	return idx
}()

// ResolveCity maps a city name or alias to its grid point. Matching is
// exact; fuzzy extraction from free text lives in the userweather package.
func ResolveCity(nameOrAlias string) (GridPoint, bool) {
	point, ok := cityIndex[nameOrAlias]
	return point, ok
}

// CityAliases returns every known alias in declaration order.
func CityAliases() []string {
	aliases := make([]string, 0, len(cityTable))
	for _, entry := range cityTable {
		aliases = append(aliases, entry.Alias)
	}
	return aliases
}

// SupportedCities returns the canonical city names joined for error
// messages, in declaration order without duplicates.
func SupportedCities() string {
	seen := make(map[string]struct{}, len(cityTable))
	names := make([]string, 0, len(cityTable)/2)
	for _, entry := range cityTable {
		if _, dup := seen[entry.Point.Name]; dup {
			continue
		}
		seen[entry.Point.Name] = struct{}{}
		names = append(names, entry.Point.Name)
	}
	return strings.Join(names, ", ")
}
