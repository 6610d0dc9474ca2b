// Package report composes the per-site pipeline: gate, window, fetch,
// render, deliver.
package report

import (
	"strings"

	"github.com/sitepulse/umami-reporter/internal/config"
	"github.com/sitepulse/umami-reporter/internal/i18n"
	"github.com/sitepulse/umami-reporter/internal/umami"
)

// tableTitleKeys maps each breakdown category to the translation key of its
// first-column title. The second column is always the localized "views".
var tableTitleKeys = map[string]string{
	"urls":      "pages",
	"referrers": "referrers",
	"browsers":  "browsers",
	"oses":      "operating_systems",
	"devices":   "devices",
	"countries": "countries",
	"events":    "events",
}

// FormatPlaceholders substitutes {name} placeholders in a translated
// string. Unknown placeholders are left in place so a bad locale file is
// visible in the output rather than silently blanked.
func FormatPlaceholders(s string, vars map[string]string) string {
	for key, val := range vars {
		s = strings.ReplaceAll(s, "{"+key+"}", val)
	}
	return s
}

// CapitalizeSentences upper-cases the first letter of each period-separated
// sentence and lower-cases the rest, matching how the localized header and
// footer strings are normalized.
func CapitalizeSentences(text string) string {
	sentences := strings.Split(text, ". ")
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if s == "" {
			continue
		}
		lower := strings.ToLower(s)
		out = append(out, strings.ToUpper(lower[:1])+lower[1:])
	}
	return strings.Join(out, ". ")
}

// Subject builds the localized email subject for one site's report.
func Subject(table i18n.Table, frequencyLabel, websiteName string) string {
	return FormatPlaceholders(i18n.String(table, "website_analytics_report_for"), map[string]string{
		"frequency_options": frequencyLabel,
		"website_name":      websiteName,
	})
}

// BuildContext assembles the template bindings for one report: branding,
// localized header and footer, the scalar summary, and one table per
// fetched breakdown category in the order the site requested them.
func BuildContext(site config.SiteConfig, company config.CompanyConfig, table i18n.Table,
	frequencyLabel string, bundle *umami.Bundle, css string) map[string]interface{} {

	header := CapitalizeSentences(FormatPlaceholders(i18n.String(table, "report_header"), map[string]string{
		"website_name":           site.Name,
		"frequency_text":         i18n.String(table, site.Frequency),
		"frequency_options_text": frequencyLabel,
	}))

	footer := CapitalizeSentences(FormatPlaceholders(i18n.String(table, "report_footer"), map[string]string{
		"comp_email": company.Email,
		"comp_url":   company.URL,
	}))

	loginURLText := ""
	if site.SendLoginURL != "" {
		loginURLText = FormatPlaceholders(i18n.String(table, "link_to_login"), map[string]string{
			"login_url": site.SendLoginURL,
		})
	}

	return map[string]interface{}{
		"lang":            site.Lang,
		"css":             css,
		"company":         companyBindings(company),
		"frequency":       site.Frequency,
		"frequency_label": frequencyLabel,
		"report_header":   header,
		"report_footer":   footer,
		"login_url_text":  loginURLText,
		"website_name":    site.Name,
		"top":             site.Top,
		"stats":           statsBindings(bundle.Stats),
		"tables":          tableBindings(site.WhatStats, table, bundle),
		"translations":    map[string]interface{}(table),
	}
}

func companyBindings(c config.CompanyConfig) map[string]interface{} {
	return map[string]interface{}{
		"name":  c.Name,
		"url":   c.URL,
		"logo":  c.Logo,
		"email": c.Email,
	}
}

func statsBindings(s *umami.ScalarStats) map[string]interface{} {
	if s == nil {
		return nil
	}
	metric := func(m umami.ScalarMetric) map[string]interface{} {
		return map[string]interface{}{"value": m.Value, "prev": m.Prev}
	}
	return map[string]interface{}{
		"pageviews": metric(s.Pageviews),
		"visitors":  metric(s.Visitors),
		"visits":    metric(s.Visits),
		"bounces":   metric(s.Bounces),
		"totaltime": metric(s.Totaltime),
	}
}

// tableBindings emits one table per requested breakdown category that made
// it into the bundle. Full rows are passed through; the template caps the
// display at `top`.
func tableBindings(categories []string, table i18n.Table, bundle *umami.Bundle) []map[string]interface{} {
	var tables []map[string]interface{}
	for _, category := range categories {
		if category == umami.CategoryStats {
			continue
		}
		titleKey, ok := tableTitleKeys[category]
		if !ok {
			continue
		}
		rows, ok := bundle.Series[category]
		if !ok {
			continue
		}

		boundRows := make([]map[string]interface{}, 0, len(rows))
		for _, row := range rows {
			boundRows = append(boundRows, map[string]interface{}{
				"label": row.Label,
				"value": row.Value,
			})
		}
		tables = append(tables, map[string]interface{}{
			"category":    category,
			"title":       i18n.String(table, titleKey),
			"value_title": i18n.String(table, "views"),
			"rows":        boundRows,
		})
	}
	return tables
}
