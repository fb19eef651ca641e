// AngelaMos | 2026
// useragent.go

package analytics

import "strings"

// Client is the device, browser and OS family inferred from a user agent.
type Client struct {
	Device  string `json:"device"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

// Classify applies ordered substring rules to the lowercased user agent.
// The first matching rule wins in each dimension.
func Classify(userAgent string) Client {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return Client{Device: Unknown, Browser: Unknown, OS: Unknown}
	}

	return Client{
		Device:  classifyDevice(ua),
		Browser: classifyBrowser(ua),
		OS:      classifyOS(ua),
	}
}

func classifyDevice(ua string) string {
	switch {
	case containsAny(ua, "mobile", "android", "iphone"):
		return DeviceMobile
	case containsAny(ua, "tablet", "ipad"):
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

func classifyBrowser(ua string) string {
	switch {
	case strings.Contains(ua, "chrome") && !strings.Contains(ua, "edg"):
		return "chrome"
	case strings.Contains(ua, "firefox"):
		return "firefox"
	case strings.Contains(ua, "safari") && !strings.Contains(ua, "chrome"):
		return "safari"
	case strings.Contains(ua, "edg"):
		return "edge"
	default:
		return Unknown
	}
}

func classifyOS(ua string) string {
	switch {
	case strings.Contains(ua, "windows"):
		return "windows"
	case containsAny(ua, "mac os x", "macos"):
		return "macos"
	case strings.Contains(ua, "linux"):
		return "linux"
	case strings.Contains(ua, "android"):
		return "android"
	case containsAny(ua, "ios", "iphone", "ipad"):
		return "ios"
	default:
		return Unknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CoarseDevice buckets a raw user agent for the analytics views. It is
// case-sensitive and independent of Classify, so its output can differ from
// the stored device field for the same agent.
func CoarseDevice(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Mobile"):
		return "Mobile"
	case strings.Contains(userAgent, "Tablet"):
		return "Tablet"
	default:
		return "Desktop"
	}
}
