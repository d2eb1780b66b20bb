package useragent

import (
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	uaparser "github.com/mssola/useragent"
)

// Info is the parsed form of a User-Agent header stored with a refresh session.
type Info struct {
	Browser  string `json:"browser"`
	Version  string `json:"version,omitempty"`
	OS       string `json:"os"`
	Platform string `json:"platform,omitempty"`
	Engine   string `json:"engine,omitempty"`
	Mobile   bool   `json:"mobile,omitempty"`
	Bot      bool   `json:"bot,omitempty"`
	Raw      string `json:"ua"`
}

// Parse extracts browser, major version and operating system from a User-Agent string.
func Parse(ua string) Info {
	info := Info{Browser: "Unknown Browser", OS: "Unknown OS", Raw: ua}
	if strings.TrimSpace(ua) == "" {
		return info
	}

	parsed := uaparser.New(ua)
	if name, version := parsed.Browser(); name != "" {
		info.Browser = name
		info.Version = majorVersion(version)
	}
	if os := parsed.OS(); os != "" {
		info.OS = os
	}
	info.Platform = parsed.Platform()
	info.Engine, _ = parsed.Engine()
	info.Mobile = parsed.Mobile()
	info.Bot = parsed.Bot()

	return info
}

func majorVersion(s string) string {
	major, _, _ := strings.Cut(s, ".")
	return major
}

// String renders the info as e.g. "Chrome 120 on Linux".
func (i Info) String() string {
	if i.Version != "" {
		return i.Browser + " " + i.Version + " on " + i.OS
	}
	return i.Browser + " on " + i.OS
}

// JSON serializes the info for storage.
func (i Info) JSON() string {
	data, err := json.Marshal(i)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ExtractDeviceInfo parses the request's User-Agent header.
func ExtractDeviceInfo(r *http.Request) Info {
	return Parse(r.Header.Get("User-Agent"))
}

// ExtractIPAddress gets the real IP address from the request
// Handles proxies and load balancers by checking X-Forwarded-For and X-Real-IP headers
func ExtractIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
