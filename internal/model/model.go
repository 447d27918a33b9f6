package model

import (
	"html/template"
	"time"
)

// ServiceDescriptor is one service offering shown as a card and emitted
// as a Service offer.
type ServiceDescriptor struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	CostRange   string `yaml:"costRange,omitempty"`
	Icon        string `yaml:"icon,omitempty"`
}

// FAQEntry drives both the visible accordion and the FAQPage document.
type FAQEntry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// CostRow is a row of a pricing table. Cost is free text, usually of the
// form "$X - $Y/unit".
type CostRow struct {
	Label    string `yaml:"label"`
	Cost     string `yaml:"cost"`
	Unit     string `yaml:"unit,omitempty"`
	Timeline string `yaml:"timeline,omitempty"`
	Warranty string `yaml:"warranty,omitempty"`
}

// ProcessStep is one numbered step of a process timeline.
type ProcessStep struct {
	Ordinal     int    `yaml:"ordinal"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// BreadcrumbItem is one hop of a root-to-leaf breadcrumb trail.
type BreadcrumbItem struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

// Link is an inbound link to another route of the site.
type Link struct {
	Href  string `yaml:"href"`
	Label string `yaml:"label"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type Hero struct {
	Heading    string `yaml:"heading"`
	Subheading string `yaml:"subheading,omitempty"`
	Image      string `yaml:"image,omitempty"`
	CTALabel   string `yaml:"ctaLabel,omitempty"`
	CTAHref    string `yaml:"ctaHref,omitempty"`
}

// OpenGraph carries the og:* overrides. Empty fields fall back to the
// page metadata.
type OpenGraph struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Image       string `yaml:"image,omitempty"`
	Type        string `yaml:"type,omitempty"`
}

// Metadata is the head metadata of a page.
type Metadata struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Keywords    []string  `yaml:"keywords,omitempty"`
	Canonical   string    `yaml:"canonical,omitempty"`
	OpenGraph   OpenGraph `yaml:"openGraph,omitempty"`
}

// Article is the body of an educational article page.
type Article struct {
	Headline  string
	Author    string
	Published time.Time
	Modified  time.Time
	Image     string
	Summary   string
	Body      template.HTML
}
