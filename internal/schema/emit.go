package schema

import (
	"strings"
	"time"

	"github.com/suncoast/sitegen/internal/config"
	"github.com/suncoast/sitegen/internal/model"
)

// LocalBusiness emits the business listing. Name and telephone are
// required.
func LocalBusiness(b config.Business, baseURL string) (Document, error) {
	if err := required("LocalBusiness", field{"name", b.Name}, field{"telephone", b.Phone}); err != nil {
		return Document{}, err
	}
	doc := localBusiness{
		Context:      vocabulary,
		Type:         "GeneralContractor",
		Name:         b.Name,
		Telephone:    b.Phone,
		Email:        b.Email,
		URL:          AbsoluteURL(baseURL, "/"),
		Logo:         absoluteIfPath(baseURL, b.Logo),
		PriceRange:   b.PriceRange,
		OpeningHours: b.OpeningHour,
		AreaServed:   cities(b.AreaServed),
		Identifier:   b.License,
	}
	if b.Street != "" || b.City != "" {
		doc.Address = &postalAddress{
			Type:            "PostalAddress",
			StreetAddress:   b.Street,
			AddressLocality: b.City,
			AddressRegion:   b.Region,
			PostalCode:      b.PostalCode,
			AddressCountry:  b.Country,
		}
	}
	return Document{Type: doc.Type, body: doc}, nil
}

// Service emits a service offering for the page's service. The offers
// listed are the page's service cards, in order. A city page narrows the
// served area to its city; otherwise the business's area is used.
func Service(p *model.Page, b config.Business, baseURL string) (Document, error) {
	name := p.Service
	if name == "" {
		name = p.Hero.Heading
	}
	if err := required("Service", field{"name", name}, field{"provider.name", b.Name}); err != nil {
		return Document{}, err
	}
	doc := service{
		Context:     vocabulary,
		Type:        "Service",
		Name:        serviceName(name, p.City),
		ServiceType: name,
		Description: p.Metadata.Description,
		URL:         AbsoluteURL(baseURL, p.Route),
		Provider: organization{
			Type:      "GeneralContractor",
			Name:      b.Name,
			Telephone: b.Phone,
			URL:       AbsoluteURL(baseURL, "/"),
		},
	}
	if p.City != "" {
		doc.AreaServed = cities([]string{p.City})
	} else {
		doc.AreaServed = cities(b.AreaServed)
	}
	if len(p.Services) > 0 {
		catalog := &offerCatalog{Type: "OfferCatalog", Name: doc.Name}
		for _, s := range p.Services {
			if err := required("Service.offer", field{"name", s.Name}); err != nil {
				return Document{}, err
			}
			catalog.ItemListElement = append(catalog.ItemListElement, offer{
				Type:        "Offer",
				ItemOffered: serviceItem{Type: "Service", Name: s.Name, Description: s.Description},
			})
		}
		doc.HasOfferCatalog = catalog
	}
	return Document{Type: doc.Type, body: doc}, nil
}

// FAQPage emits one Question per entry, in input order. It reports ok
// false for an empty list.
func FAQPage(faqs []model.FAQEntry) (doc Document, ok bool, err error) {
	if len(faqs) == 0 {
		return Document{}, false, nil
	}
	page := faqPage{Context: vocabulary, Type: "FAQPage"}
	for _, f := range faqs {
		if err := required("FAQPage.question", field{"name", f.Question}, field{"acceptedAnswer.text", f.Answer}); err != nil {
			return Document{}, false, err
		}
		page.MainEntity = append(page.MainEntity, question{
			Type:           "Question",
			Name:           sanitizeText(f.Question),
			AcceptedAnswer: answer{Type: "Answer", Text: sanitizeText(f.Answer)},
		})
	}
	return Document{Type: page.Type, body: page}, true, nil
}

// BreadcrumbList emits the trail after checking it with ValidateTrail.
// It reports ok false for an empty trail.
func BreadcrumbList(crumbs []model.BreadcrumbItem, route, baseURL string) (doc Document, ok bool, err error) {
	if len(crumbs) == 0 {
		return Document{}, false, nil
	}
	if err := ValidateTrail(crumbs, route); err != nil {
		return Document{}, false, err
	}
	list := breadcrumbList{Context: vocabulary, Type: "BreadcrumbList"}
	for i, c := range crumbs {
		list.ItemListElement = append(list.ItemListElement, listItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     sanitizeText(c.Name),
			Item:     AbsoluteURL(baseURL, c.Href),
		})
	}
	return Document{Type: list.Type, body: list}, true, nil
}

// Article emits an Article authored and published by the business.
func Article(a *model.Article, meta model.Metadata, route string, b config.Business, baseURL string) (Document, error) {
	if a == nil {
		return Document{}, required("Article", field{"headline", ""})
	}
	if err := required("Article",
		field{"headline", a.Headline},
		field{"publisher.name", b.Name},
	); err != nil {
		return Document{}, err
	}
	if a.Published.IsZero() {
		return Document{}, required("Article", field{"datePublished", ""})
	}
	author := organization{Type: "Organization", Name: b.Name}
	if a.Author != "" {
		author = organization{Type: "Person", Name: a.Author}
	}
	doc := article{
		Context:       vocabulary,
		Type:          "Article",
		Headline:      sanitizeText(a.Headline),
		Description:   sanitizeText(firstNonEmpty(a.Summary, meta.Description)),
		Image:         absoluteIfPath(baseURL, a.Image),
		Author:        author,
		DatePublished: a.Published.Format(time.DateOnly),
		Publisher: organization{
			Type: "Organization",
			Name: b.Name,
			URL:  AbsoluteURL(baseURL, "/"),
		},
		MainEntityOfPage: AbsoluteURL(baseURL, route),
	}
	if b.Logo != "" {
		doc.Publisher.Logo = &imageObject{Type: "ImageObject", URL: absoluteIfPath(baseURL, b.Logo)}
	}
	if !a.Modified.IsZero() {
		doc.DateModified = a.Modified.Format(time.DateOnly)
	}
	return Document{Type: doc.Type, body: doc}, nil
}

// AbsoluteURL joins a site-relative path onto baseURL. With no base URL
// the path is returned unchanged.
func AbsoluteURL(baseURL, path string) string {
	if baseURL == "" || strings.Contains(path, "://") {
		return path
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func absoluteIfPath(baseURL, ref string) string {
	if ref == "" {
		return ""
	}
	return AbsoluteURL(baseURL, ref)
}

func cities(names []string) []place {
	var out []place
	for _, n := range names {
		out = append(out, place{Type: "City", Name: n})
	}
	return out
}

func serviceName(service, city string) string {
	if city == "" {
		return service
	}
	return service + " in " + city
}

// NormalizeFAQs returns a copy of faqs with questions and answers cleaned
// the way the FAQPage document writes them. Callers that render the same
// entries as markup use it so both outputs carry identical text.
func NormalizeFAQs(faqs []model.FAQEntry) []model.FAQEntry {
	if faqs == nil {
		return nil
	}
	out := make([]model.FAQEntry, len(faqs))
	for i, f := range faqs {
		out[i] = model.FAQEntry{Question: sanitizeText(f.Question), Answer: sanitizeText(f.Answer)}
	}
	return out
}

// sanitizeText drops control characters and collapses whitespace runs.
// Markup characters are left to the JSON encoder, which escapes them.
func sanitizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
