package model

// Kind selects which structured documents and sections a page carries.
type Kind string

const (
	KindHome    Kind = "home"
	KindService Kind = "service"
	KindCity    Kind = "city"
	KindArticle Kind = "article"
	KindFAQ     Kind = "faq"
	KindIndex   Kind = "index"
)

// Page is the typed configuration of one route. Every section and every
// structured-data document of the route is derived from these fields.
type Page struct {
	Route       string              `yaml:"route"`
	Kind        Kind                `yaml:"kind"`
	Service     string              `yaml:"service,omitempty"`
	City        string              `yaml:"city,omitempty"`
	Metadata    Metadata            `yaml:"metadata"`
	Hero        Hero                `yaml:"hero,omitempty"`
	Services    []ServiceDescriptor `yaml:"services,omitempty"`
	Costs       []CostRow           `yaml:"costs,omitempty"`
	Process     []ProcessStep       `yaml:"process,omitempty"`
	FAQs        []FAQEntry          `yaml:"faqs,omitempty"`
	Stats       []Stat              `yaml:"stats,omitempty"`
	Related     []Link              `yaml:"related,omitempty"`
	Breadcrumbs []BreadcrumbItem    `yaml:"breadcrumbs,omitempty"`
	Article     *Article            `yaml:"-"`
	SourcePath  string              `yaml:"-"`
}

// Site is the loaded content of the whole site, in load order.
type Site struct {
	Pages []*Page
	index map[string]*Page
}

// NewSite indexes pages by route. Callers are expected to have rejected
// duplicate routes already; the last page wins otherwise.
func NewSite(pages []*Page) *Site {
	s := &Site{Pages: pages, index: make(map[string]*Page, len(pages))}
	for _, p := range pages {
		s.index[p.Route] = p
	}
	return s
}

// Page returns the page served at route.
func (s *Site) Page(route string) (*Page, bool) {
	p, ok := s.index[route]
	return p, ok
}

// Routes returns every route in load order.
func (s *Site) Routes() []string {
	out := make([]string, 0, len(s.Pages))
	for _, p := range s.Pages {
		out = append(out, p.Route)
	}
	return out
}

// ByKind groups pages by kind, preserving load order inside each group.
func (s *Site) ByKind() map[Kind][]*Page {
	out := make(map[Kind][]*Page)
	for _, p := range s.Pages {
		out[p.Kind] = append(out[p.Kind], p)
	}
	return out
}
