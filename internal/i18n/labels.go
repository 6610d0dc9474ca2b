package i18n

// frequencyKeys maps a report frequency to the translation key carrying its
// human label ("daily", "weekly", ...).
var frequencyKeys = map[string]string{
	"day":     "daily",
	"week":    "weekly",
	"month":   "monthly",
	"quarter": "quarterly",
	"year":    "yearly",
}

// FrequencyLabel returns the localized cadence label for a frequency, or
// the empty string when the frequency or the key is unknown.
func FrequencyLabel(frequency string, table Table) string {
	key, ok := frequencyKeys[frequency]
	if !ok {
		return ""
	}
	return String(table, key)
}

// String returns the string value at key, or "" when absent or non-string.
func String(table Table, key string) string {
	if table == nil {
		return ""
	}
	if s, ok := table[key].(string); ok {
		return s
	}
	return ""
}
