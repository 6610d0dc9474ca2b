package umami

// ScalarMetric is one aggregate counter with its previous-period value.
type ScalarMetric struct {
	Value float64 `json:"value"`
	Prev  float64 `json:"prev"`
}

// ScalarStats is the aggregate-stats record returned by the /stats endpoint.
type ScalarStats struct {
	Pageviews ScalarMetric `json:"pageviews"`
	Visitors  ScalarMetric `json:"visitors"`
	Visits    ScalarMetric `json:"visits"`
	Bounces   ScalarMetric `json:"bounces"`
	Totaltime ScalarMetric `json:"totaltime"`
}

// LabelValue is one row of a breakdown metric (page, referrer, browser, ...),
// in the order the API returned it.
type LabelValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// metricRow is the positional pair record the /metrics endpoint returns.
type metricRow struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// loginResponse is the body of a successful /auth/login call.
type loginResponse struct {
	Token string `json:"token"`
}

// Bundle is the normalized collection of all fetched categories for one
// site's report. A requested category either appears with its canonical
// shape or is absent; it is never present half-formed.
type Bundle struct {
	Stats  *ScalarStats
	Series map[string][]LabelValue
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{Series: make(map[string][]LabelValue)}
}

// Empty reports whether nothing was fetched.
func (b *Bundle) Empty() bool {
	return b == nil || (b.Stats == nil && len(b.Series) == 0)
}

// Has reports whether the given category made it into the bundle.
func (b *Bundle) Has(category string) bool {
	if b == nil {
		return false
	}
	if category == CategoryStats {
		return b.Stats != nil
	}
	_, ok := b.Series[category]
	return ok
}
