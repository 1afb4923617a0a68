package catalog

import "strings"

type countryInfo struct {
	name     string
	language string
}

// countries maps ISO 3166-1 alpha-2 codes to a display name and primary
// language for the codes that commonly appear in the directory. Unknown codes
// fall back to the bare code with no language.
var countries = map[string]countryInfo{
	"AR": {"Argentina", "Spanish"},
	"AT": {"Austria", "German"},
	"AU": {"Australia", "English"},
	"BE": {"Belgium", "Dutch"},
	"BG": {"Bulgaria", "Bulgarian"},
	"BR": {"Brazil", "Portuguese"},
	"CA": {"Canada", "English"},
	"CH": {"Switzerland", "German"},
	"CL": {"Chile", "Spanish"},
	"CN": {"China", "Chinese"},
	"CO": {"Colombia", "Spanish"},
	"CZ": {"Czechia", "Czech"},
	"DE": {"Germany", "German"},
	"DK": {"Denmark", "Danish"},
	"EE": {"Estonia", "Estonian"},
	"EG": {"Egypt", "Arabic"},
	"ES": {"Spain", "Spanish"},
	"FI": {"Finland", "Finnish"},
	"FR": {"France", "French"},
	"GB": {"United Kingdom", "English"},
	"GR": {"Greece", "Greek"},
	"HR": {"Croatia", "Croatian"},
	"HU": {"Hungary", "Hungarian"},
	"ID": {"Indonesia", "Indonesian"},
	"IE": {"Ireland", "English"},
	"IL": {"Israel", "Hebrew"},
	"IN": {"India", "Hindi"},
	"IS": {"Iceland", "Icelandic"},
	"IT": {"Italy", "Italian"},
	"JP": {"Japan", "Japanese"},
	"KR": {"South Korea", "Korean"},
	"LT": {"Lithuania", "Lithuanian"},
	"LV": {"Latvia", "Latvian"},
	"MA": {"Morocco", "Arabic"},
	"MX": {"Mexico", "Spanish"},
	"NL": {"Netherlands", "Dutch"},
	"NO": {"Norway", "Norwegian"},
	"NZ": {"New Zealand", "English"},
	"PE": {"Peru", "Spanish"},
	"PH": {"Philippines", "Filipino"},
	"PL": {"Poland", "Polish"},
	"PT": {"Portugal", "Portuguese"},
	"RO": {"Romania", "Romanian"},
	"RS": {"Serbia", "Serbian"},
	"RU": {"Russia", "Russian"},
	"SE": {"Sweden", "Swedish"},
	"SI": {"Slovenia", "Slovenian"},
	"SK": {"Slovakia", "Slovak"},
	"TH": {"Thailand", "Thai"},
	"TN": {"Tunisia", "Arabic"},
	"TR": {"Turkey", "Turkish"},
	"TW": {"Taiwan", "Chinese"},
	"UA": {"Ukraine", "Ukrainian"},
	"US": {"United States", "English"},
	"UY": {"Uruguay", "Spanish"},
	"VN": {"Vietnam", "Vietnamese"},
	"ZA": {"South Africa", "English"},
}

// CountryName returns the display name for a country code, or the upper-cased
// code itself when unknown.
func CountryName(code string) string {
	if c, ok := countries[strings.ToUpper(code)]; ok {
		return c.name
	}
	return strings.ToUpper(code)
}

// CountryLanguage returns the primary language for a country code, or empty
// when unknown.
func CountryLanguage(code string) string {
	return countries[strings.ToUpper(code)].language
}
