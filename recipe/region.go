package recipe

import "strings"

type Region struct {
	ID   int
	Name string
}

var regions = [...]Region{
	{1, "Tolna vármegye"},
	{2, "Bács-Kiskun vármegye"},
	{3, "Fejér vármegye"},
	{4, "Komárom-Esztergom vármegye"},
	{5, "Budapest"},
	{6, "Pest vármegye"},
	{7, "Csongrád-Csanád vármegye"},
	{8, "Békés vármegye"},
	{9, "Jász-Nagykun-Szolnok vármegye"},
	{10, "Heves vármegye"},
	{11, "Hajdú-Bihar vármegye"},
	{12, "Nógrád vármegye"},
	{13, "Borsod-Abaúj-Zemplén vármegye"},
	{14, "Szabolcs-Szatmár-Bereg vármegye"},
	{15, "Vas vármegye"},
	{16, "Baranya vármegye"},
	{17, "Zala vármegye"},
	{18, "Somogy vármegye"},
	{19, "Győr-Moson-Sopron vármegye"},
	{20, "Veszprém vármegye"},
}

var regionByName = func() map[string]int {
	m := make(map[string]int, len(regions))
	for _, r := range regions {
		m[r.Name] = r.ID
	}
	return m
}()

func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions[:])
	return out
}

// RegionID resolves a county name. Geocoders report both the old "megye"
// and the current "vármegye" form, both are accepted.
func RegionID(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, " vármegye") {
		name = strings.TrimSuffix(name, " megye") + " vármegye"
		if strings.HasPrefix(name, "Budapest") {
			name = "Budapest"
		}
	}
	id, ok := regionByName[name]
	return id, ok
}
