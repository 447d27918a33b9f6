package config

// Config is the build configuration, decoded by viper from site.yaml,
// flags and SITE_* environment variables.
type Config struct {
	SiteTitle  string   `mapstructure:"siteTitle"`
	OutputDir  string   `mapstructure:"outputDir"`
	BaseURL    string   `mapstructure:"baseURL"`
	ContentDir string   `mapstructure:"contentDir"`
	LayoutsDir string   `mapstructure:"layoutsDir"`
	StaticDir  string   `mapstructure:"staticDir"`
	StrictCost bool     `mapstructure:"strictCost"`
	Business   Business `mapstructure:"business"`
}

// Business is the process-wide contact record every page reads for
// phone numbers, addresses and the LocalBusiness listing.
type Business struct {
	Name        string   `mapstructure:"name"`
	Phone       string   `mapstructure:"phone"`
	Email       string   `mapstructure:"email"`
	Street      string   `mapstructure:"street"`
	City        string   `mapstructure:"city"`
	Region      string   `mapstructure:"region"`
	PostalCode  string   `mapstructure:"postalCode"`
	Country     string   `mapstructure:"country"`
	Logo        string   `mapstructure:"logo"`
	PriceRange  string   `mapstructure:"priceRange"`
	AreaServed  []string `mapstructure:"areaServed"`
	License     string   `mapstructure:"license"`
	OpeningHour string   `mapstructure:"openingHours"`
}

// Defaults mirrors the viper defaults registered by the CLI so library
// callers and tests get the same layout without going through viper.
func Defaults() Config {
	return Config{
		SiteTitle:  "Suncoast Construction",
		OutputDir:  "public",
		ContentDir: "content",
		LayoutsDir: "layouts",
		StaticDir:  "static",
		Business: Business{
			Country: "US",
			Region:  "FL",
		},
	}
}

// TelHref formats the phone number as a tel: link target.
func (b Business) TelHref() string {
	digits := make([]byte, 0, len(b.Phone))
	for i := 0; i < len(b.Phone); i++ {
		c := b.Phone[i]
		if (c >= '0' && c <= '9') || (c == '+' && len(digits) == 0) {
			digits = append(digits, c)
		}
	}
	if len(digits) == 0 {
		return ""
	}
	return "tel:" + string(digits)
}
