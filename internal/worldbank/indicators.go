package worldbank

// WBIndicators maps World Bank API indicator codes to the short names
// used in the raw dataset.
var WBIndicators = map[string]string{
	"DT.DOD.DECT.CD":    "external_debt_stock",
	"GC.DOD.TOTL.GD.ZS": "debt_to_gdp",
	"NY.GDP.MKTP.CD":    "gdp_usd",
	"NY.GDP.MKTP.KD.ZG": "gdp_growth",
	"GC.REV.XGRT.GD.ZS": "revenue_pct_gdp",
	"DT.TDS.DECT.CD":    "debt_service_usd",
	"SH.XPD.CHEX.GD.ZS": "health_pct_gdp",
	"SE.XPD.TOTL.GD.ZS": "education_pct_gdp",
}

// IMFIndicators maps IMF DataMapper indicator codes to short names.
var IMFIndicators = map[string]string{
	"NGDP_RPCH":   "real_gdp_growth",
	"GGXWDG_NGDP": "general_govt_debt",
	"PCPIPCH":     "inflation",
}
