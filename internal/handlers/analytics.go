package handlers

import "finitefield.org/folio-web/internal/config"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	Debug            bool
}

// AnalyticsFrom copies the analytics settings out of the loaded config.
func AnalyticsFrom(cfg config.Analytics) Analytics {
	return Analytics{
		GA4MeasurementID: cfg.GA4MeasurementID,
		Debug:            cfg.Debug,
	}
}

// Enabled reports whether the GA snippet should be emitted.
func (a Analytics) Enabled() bool { return a.GA4MeasurementID != "" }
