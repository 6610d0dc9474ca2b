package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultStats is the full set of metric categories included when a site
// does not narrow what_stats.
var DefaultStats = []string{
	"stats", "events", "urls", "referrers", "browsers", "oses", "devices", "countries",
}

// SiteConfig identifies one tenant website and how its report is produced.
// The list is loaded once at process start and never mutated afterwards.
type SiteConfig struct {
	WebsiteID      string   `json:"website_id"`
	Name           string   `json:"name"`
	Emails         []string `json:"emails"`
	Frequency      string   `json:"frequency"`
	SendDay        []string `json:"send_day"`
	WhatStats      []string `json:"what_stats"`
	Lang           string   `json:"lang"`
	Top            int      `json:"top"`
	EmailTime      string   `json:"email_time"`
	EmailTemplate  string   `json:"email_template"`
	GenerateHTML   bool     `json:"generate_html"`
	SendAttachment bool     `json:"send_attachment"`
	SendLoginURL   string   `json:"send_login_url"`
}

// Validate checks the fields without which a report cannot be produced.
func (s *SiteConfig) Validate() error {
	if s.WebsiteID == "" {
		return fmt.Errorf("site config missing website_id")
	}
	if s.Name == "" {
		return fmt.Errorf("site config missing name")
	}
	if len(s.Emails) == 0 {
		return fmt.Errorf("site %q has no recipient emails", s.Name)
	}
	return nil
}

// ApplyDefaults fills unset optional fields.
func (s *SiteConfig) ApplyDefaults() {
	if s.Frequency == "" {
		s.Frequency = "day"
	}
	if len(s.WhatStats) == 0 {
		s.WhatStats = append([]string(nil), DefaultStats...)
	}
	if s.Lang == "" {
		s.Lang = "en"
	}
	if s.Top <= 0 {
		s.Top = 5
	}
	if s.EmailTime == "" {
		s.EmailTime = "08:00"
	}
	if s.EmailTemplate == "" {
		s.EmailTemplate = "email_report.liquid"
	}
	for i, d := range s.SendDay {
		s.SendDay[i] = strings.ToLower(d)
	}
}

// LoadSites reads the JSON site list. A missing or unparsable file is a
// startup failure; individual sites are only validated when processed so
// that one bad entry cannot keep the others from their reports.
func LoadSites(path string) ([]SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site list: %w", err)
	}

	var sites []SiteConfig
	if err := json.Unmarshal(data, &sites); err != nil {
		return nil, fmt.Errorf("parsing site list: %w", err)
	}
	return sites, nil
}
