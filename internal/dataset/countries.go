package dataset

// AfricanCountries maps ISO3 codes to country names for the 54 African
// economies covered by the upstream statistical sources.
var AfricanCountries = map[string]string{
	"DZA": "Algeria",
	"AGO": "Angola",
	"BEN": "Benin",
	"BWA": "Botswana",
	"BFA": "Burkina Faso",
	"BDI": "Burundi",
	"CMR": "Cameroon",
	"CPV": "Cape Verde",
	"CAF": "Central African Republic",
	"TCD": "Chad",
	"COM": "Comoros",
	"COG": "Congo",
	"COD": "Democratic Republic of Congo",
	"CIV": "Côte d'Ivoire",
	"DJI": "Djibouti",
	"EGY": "Egypt",
	"GNQ": "Equatorial Guinea",
	"ERI": "Eritrea",
	"SWZ": "Eswatini",
	"ETH": "Ethiopia",
	"GAB": "Gabon",
	"GMB": "Gambia",
	"GHA": "Ghana",
	"GIN": "Guinea",
	"GNB": "Guinea-Bissau",
	"KEN": "Kenya",
	"LSO": "Lesotho",
	"LBR": "Liberia",
	"LBY": "Libya",
	"MDG": "Madagascar",
	"MWI": "Malawi",
	"MLI": "Mali",
	"MRT": "Mauritania",
	"MUS": "Mauritius",
	"MAR": "Morocco",
	"MOZ": "Mozambique",
	"NAM": "Namibia",
	"NER": "Niger",
	"NGA": "Nigeria",
	"RWA": "Rwanda",
	"STP": "São Tomé and Príncipe",
	"SEN": "Senegal",
	"SYC": "Seychelles",
	"SLE": "Sierra Leone",
	"SOM": "Somalia",
	"ZAF": "South Africa",
	"SSD": "South Sudan",
	"SDN": "Sudan",
	"TZA": "Tanzania",
	"TGO": "Togo",
	"TUN": "Tunisia",
	"UGA": "Uganda",
	"ZMB": "Zambia",
	"ZWE": "Zimbabwe",
}

// Regions groups the ISO3 codes into the five African regions used for
// dashboard filtering.
var Regions = map[string][]string{
	"West Africa":     {"BEN", "BFA", "CPV", "CIV", "GMB", "GHA", "GIN", "GNB", "LBR", "MLI", "MRT", "NER", "NGA", "SEN", "SLE", "TGO"},
	"East Africa":     {"BDI", "COM", "DJI", "ERI", "ETH", "KEN", "MDG", "MWI", "MUS", "MOZ", "RWA", "SYC", "SOM", "SSD", "TZA", "UGA", "ZMB", "ZWE"},
	"Central Africa":  {"AGO", "CMR", "CAF", "TCD", "COG", "COD", "GNQ", "GAB", "STP"},
	"Southern Africa": {"BWA", "LSO", "NAM", "ZAF", "SWZ"},
	"North Africa":    {"DZA", "EGY", "LBY", "MAR", "SDN", "TUN"},
}

// RegionForCountry returns the region of an ISO3 code, or "Unknown".
func RegionForCountry(code string) string {
	for region, codes := range Regions {
		for _, c := range codes {
			if c == code {
				return region
			}
		}
	}
	return "Unknown"
}
