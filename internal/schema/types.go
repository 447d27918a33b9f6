package schema

type postalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

type place struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type organization struct {
	Type      string       `json:"@type"`
	Name      string       `json:"name"`
	Telephone string       `json:"telephone,omitempty"`
	URL       string       `json:"url,omitempty"`
	Logo      *imageObject `json:"logo,omitempty"`
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type localBusiness struct {
	Context      string         `json:"@context"`
	Type         string         `json:"@type"`
	Name         string         `json:"name"`
	Telephone    string         `json:"telephone"`
	Email        string         `json:"email,omitempty"`
	URL          string         `json:"url,omitempty"`
	Logo         string         `json:"logo,omitempty"`
	PriceRange   string         `json:"priceRange,omitempty"`
	OpeningHours string         `json:"openingHours,omitempty"`
	Address      *postalAddress `json:"address,omitempty"`
	AreaServed   []place        `json:"areaServed,omitempty"`
	Identifier   string         `json:"identifier,omitempty"`
}

type offerCatalog struct {
	Type            string  `json:"@type"`
	Name            string  `json:"name"`
	ItemListElement []offer `json:"itemListElement"`
}

type offer struct {
	Type        string      `json:"@type"`
	ItemOffered serviceItem `json:"itemOffered"`
}

type serviceItem struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type service struct {
	Context         string        `json:"@context"`
	Type            string        `json:"@type"`
	Name            string        `json:"name"`
	ServiceType     string        `json:"serviceType"`
	Description     string        `json:"description,omitempty"`
	URL             string        `json:"url,omitempty"`
	Provider        organization  `json:"provider"`
	AreaServed      []place       `json:"areaServed,omitempty"`
	HasOfferCatalog *offerCatalog `json:"hasOfferCatalog,omitempty"`
}

type answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer answer `json:"acceptedAnswer"`
}

type faqPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []question `json:"mainEntity"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type breadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []listItem `json:"itemListElement"`
}

type article struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description,omitempty"`
	Image            string       `json:"image,omitempty"`
	Author           organization `json:"author"`
	Publisher        organization `json:"publisher"`
	DatePublished    string       `json:"datePublished"`
	DateModified     string       `json:"dateModified,omitempty"`
	MainEntityOfPage string       `json:"mainEntityOfPage"`
}
