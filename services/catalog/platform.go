package catalog

import "strings"

// Platform is the device class detected for a request. Only android-tv takes
// the reduced-asset path.
type Platform string

const (
	PlatformAndroidTV Platform = "android-tv"
	PlatformMobile    Platform = "mobile"
	PlatformDesktop   Platform = "desktop"
	PlatformUnknown   Platform = "unknown"
)

var tvMarkers = []string{
	"android tv", "androidtv", "smart-tv", "smarttv", "shield", "bravia", "fire tv", "firetv",
}

var mobileMarkers = []string{
	"mobile", "iphone", "ipad", "android",
}

var desktopMarkers = []string{
	"windows", "macintosh", "x11; linux", "cros",
}

// DetectPlatform classifies a request's device class from its user agent.
// An explicit platform hint (query parameter some clients send) wins over
// user-agent sniffing. Inherently heuristic; the vocabulary lives here so it
// can grow without touching orchestration.
func DetectPlatform(userAgent, hint string) Platform {
	switch Platform(strings.ToLower(strings.TrimSpace(hint))) {
	case PlatformAndroidTV, PlatformMobile, PlatformDesktop:
		return Platform(strings.ToLower(strings.TrimSpace(hint)))
	}

	ua := strings.ToLower(userAgent)
	if containsAny(ua, tvMarkers) {
		return PlatformAndroidTV
	}
	if containsAny(ua, mobileMarkers) {
		return PlatformMobile
	}
	if containsAny(ua, desktopMarkers) {
		return PlatformDesktop
	}
	return PlatformUnknown
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
