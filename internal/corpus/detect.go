package corpus

import (
	"bytes"
	"net/http"
	"strings"
)

// Detector examines a fetch result to determine if a bot protection
// interstitial was served instead of the real page. Challenged pages carry
// no competitor content and would pollute the extractor with challenge
// boilerplate questions.
type Detector func(res *FetchResult) (detected bool, source string)

// DefaultDetectors returns the standard list of bot protection detectors.
func DefaultDetectors() []Detector {
	return []Detector{
		detectCloudflare,
		detectAkamai,
		detectDataDome,
		detectPerimeterX,
	}
}

// DetectChallenge runs the result through all provided detectors, updating
// it in place, and returns true if any detection triggered.
func DetectChallenge(res *FetchResult, detectors []Detector) bool {
	if res == nil {
		return false
	}
	for _, d := range detectors {
		if detected, source := d(res); detected {
			res.Challenged = true
			res.ChallengeSrc = source
			return true
		}
	}
	res.Challenged = false
	res.ChallengeSrc = ""
	return false
}

func getHeader(headers map[string][]string, key string) string {
	if vals, ok := headers[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	// Case-insensitive fallback
	lowerKey := strings.ToLower(key)
	for k, vals := range headers {
		if strings.ToLower(k) == lowerKey && len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// detectCloudflare looks for common Cloudflare challenge/block signatures.
func detectCloudflare(res *FetchResult) (bool, string) {
	if res.StatusCode == http.StatusForbidden || res.StatusCode == http.StatusServiceUnavailable {
		server := strings.ToLower(getHeader(res.Headers, "Server"))
		if strings.Contains(server, "cloudflare") {
			return true, "Cloudflare"
		}

		if bytes.Contains(res.Body, []byte("cf-browser-verification")) ||
			bytes.Contains(res.Body, []byte("cloudflare-nginx")) ||
			bytes.Contains(res.Body, []byte("cf-turnstile")) ||
			bytes.Contains(res.Body, []byte("Attention Required! | Cloudflare")) {
			return true, "Cloudflare"
		}
	}
	return false, ""
}

// detectAkamai looks for Akamai Bot Manager signatures.
func detectAkamai(res *FetchResult) (bool, string) {
	if res.StatusCode == http.StatusForbidden {
		server := strings.ToLower(getHeader(res.Headers, "Server"))
		if strings.Contains(server, "akamai") {
			return true, "Akamai"
		}

		// Akamai often returns a generic "Reference #" block page
		if bytes.Contains(res.Body, []byte("Reference #")) && bytes.Contains(res.Body, []byte("Access Denied")) {
			return true, "Akamai"
		}
	}
	return false, ""
}

// detectDataDome looks for DataDome challenge/block signatures.
func detectDataDome(res *FetchResult) (bool, string) {
	if res.StatusCode == http.StatusForbidden {
		server := strings.ToLower(getHeader(res.Headers, "Server"))
		if strings.Contains(server, "datadome") {
			return true, "DataDome"
		}

		if getHeader(res.Headers, "X-DataDome") != "" || getHeader(res.Headers, "X-DataDome-Response") != "" {
			return true, "DataDome"
		}

		if bytes.Contains(res.Body, []byte("geo.captcha-delivery.com")) || bytes.Contains(res.Body, []byte("datadome")) {
			return true, "DataDome"
		}
	}
	return false, ""
}

// detectPerimeterX looks for PerimeterX (HUMAN) signatures.
func detectPerimeterX(res *FetchResult) (bool, string) {
	if res.StatusCode == http.StatusForbidden {
		if getHeader(res.Headers, "X-Px-Captcha") != "" {
			return true, "PerimeterX"
		}

		if bytes.Contains(res.Body, []byte("client.perimeterx.net")) ||
			bytes.Contains(res.Body, []byte("px-captcha")) ||
			bytes.Contains(res.Body, []byte("_pxBlock")) {
			return true, "PerimeterX"
		}
	}
	return false, ""
}
