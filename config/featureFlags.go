package config

import (
	"os"
	"strings"
)

// RemoteReportsDisabled forces every report generation onto the local
// aggregator, skipping the remote report service entirely.
//
// Set via env:
// - REPORTS_REMOTE_DISABLED=true
func RemoteReportsDisabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("REPORTS_REMOTE_DISABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// DemoSampleFallback enables demo/sample payloads for expense, item and
// business-status reports when a business has no data at all. Default OFF:
// production serves real (possibly zero-valued) data only.
//
// Set via env:
// - REPORTS_DEMO_SAMPLE_FALLBACK=true
func DemoSampleFallback() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("REPORTS_DEMO_SAMPLE_FALLBACK")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// AutoRefreshEnabledFor gates the periodic report auto-refresh worker per business.
//
// Set via env:
// - REPORTS_AUTO_REFRESH_BUSINESSES="<id>,<id>" or "ALL"
func AutoRefreshEnabledFor(businessId string) bool {
	raw := strings.TrimSpace(os.Getenv("REPORTS_AUTO_REFRESH_BUSINESSES"))
	if raw == "" {
		return false
	}
	if strings.EqualFold(raw, "ALL") {
		return true
	}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == businessId {
			return true
		}
	}
	return false
}
