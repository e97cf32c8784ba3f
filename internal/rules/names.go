package rules

// StateNames maps upper-case full state names to 2-letter codes.
// Includes the District of Columbia.
var StateNames = map[string]string{
	"ALABAMA":              "AL",
	"ALASKA":               "AK",
	"ARIZONA":              "AZ",
	"ARKANSAS":             "AR",
	"CALIFORNIA":           "CA",
	"COLORADO":             "CO",
	"CONNECTICUT":          "CT",
	"DELAWARE":             "DE",
	"FLORIDA":              "FL",
	"GEORGIA":              "GA",
	"HAWAII":               "HI",
	"IDAHO":                "ID",
	"ILLINOIS":             "IL",
	"INDIANA":              "IN",
	"IOWA":                 "IA",
	"KANSAS":               "KS",
	"KENTUCKY":             "KY",
	"LOUISIANA":            "LA",
	"MAINE":                "ME",
	"MARYLAND":             "MD",
	"MASSACHUSETTS":        "MA",
	"MICHIGAN":             "MI",
	"MINNESOTA":            "MN",
	"MISSISSIPPI":          "MS",
	"MISSOURI":             "MO",
	"MONTANA":              "MT",
	"NEBRASKA":             "NE",
	"NEVADA":               "NV",
	"NEW HAMPSHIRE":        "NH",
	"NEW JERSEY":           "NJ",
	"NEW MEXICO":           "NM",
	"NEW YORK":             "NY",
	"NORTH CAROLINA":       "NC",
	"NORTH DAKOTA":         "ND",
	"OHIO":                 "OH",
	"OKLAHOMA":             "OK",
	"OREGON":               "OR",
	"PENNSYLVANIA":         "PA",
	"RHODE ISLAND":         "RI",
	"SOUTH CAROLINA":       "SC",
	"SOUTH DAKOTA":         "SD",
	"TENNESSEE":            "TN",
	"TEXAS":                "TX",
	"UTAH":                 "UT",
	"VERMONT":              "VT",
	"VIRGINIA":             "VA",
	"WASHINGTON":           "WA",
	"WEST VIRGINIA":        "WV",
	"WISCONSIN":            "WI",
	"WYOMING":              "WY",
	"DISTRICT OF COLUMBIA": "DC",
}

// Abbreviations maps common informal state abbreviations, as seen in
// exported spreadsheets, to 2-letter codes.
var Abbreviations = map[string]string{
	"ARIZ":  "AZ",
	"CAL":   "CA",
	"CALIF": "CA",
	"COLO":  "CO",
	"CONN":  "CT",
	"FLA":   "FL",
	"ILL":   "IL",
	"IND":   "IN",
	"KAN":   "KS",
	"MASS":  "MA",
	"MICH":  "MI",
	"MINN":  "MN",
	"MONT":  "MT",
	"NEBR":  "NE",
	"NEV":   "NV",
	"OKLA":  "OK",
	"ORE":   "OR",
	"PENN":  "PA",
	"TENN":  "TN",
	"TEX":   "TX",
	"WASH":  "WA",
	"WISC":  "WI",
	"WYO":   "WY",
}
