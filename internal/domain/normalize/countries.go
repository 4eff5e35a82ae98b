package normalize

// Canonical country name -> ISO 3166-1 alpha-2 code table. This is the
// lookup the code resolver matches against, case-insensitively and by
// substring, so "Sudan, Khartoum" still resolves to SD. Slice order is
// matching precedence: when a name contains more than one table entry,
// the earlier entry wins.
//
// The table is deliberately small: it covers the countries that appear
// in the upstream feeds we aggregate plus the seed dataset. Anything
// unmapped falls back to a two-letter prefix (see CodeForCountry).
var countryCodes = []struct {
	name string
	code string
}{
	{"United States", "US"},
	{"Russia", "RU"},
	{"China", "CN"},
	{"Germany", "DE"},
	{"France", "FR"},
	{"United Kingdom", "GB"},
	{"Japan", "JP"},
	{"India", "IN"},
	{"Brazil", "BR"},
	{"Canada", "CA"},
	{"Australia", "AU"},
	{"South Africa", "ZA"},
	{"Sweden", "SE"},
	{"Somalia", "SO"},
	{"Sudan", "SD"},
	{"Nigeria", "NG"},
	{"Ukraine", "UA"},
	{"Syria", "SY"},
	{"Yemen", "YE"},
	{"Ethiopia", "ET"},
	{"Myanmar", "MM"},
}

// countryNames is the reverse mapping, used to derive a display name
// when upstream only supplies a code.
var countryNames = func() map[string]string {
	m := make(map[string]string, len(countryCodes))
	for _, entry := range countryCodes {
		m[entry.code] = entry.name
	}
	return m
}()

// CountryForCode returns the display name for a known code, or the code
// itself when unmapped.
func CountryForCode(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}
