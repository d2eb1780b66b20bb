package useragent

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		ua      string
		browser string
		version string
		os      string
		mobile  bool
	}{
		{
			name:    "chrome linux",
			ua:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			browser: "Chrome", version: "120", os: "Linux",
		},
		{
			name:    "firefox mac",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_2; rv:121.0) Gecko/20100101 Firefox/121.0",
			browser: "Firefox", version: "121", os: "Mac OS X",
		},
		{
			name:    "safari iphone",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
			browser: "Safari", version: "17", os: "iPhone OS", mobile: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := Parse(tc.ua)
			assert.Equal(t, tc.browser, info.Browser)
			assert.Equal(t, tc.version, info.Version)
			assert.Contains(t, info.OS, tc.os)
			assert.Equal(t, tc.mobile, info.Mobile)
			assert.False(t, info.Bot)
			assert.Equal(t, tc.ua, info.Raw)
			assert.Equal(t, tc.browser+" "+tc.version+" on "+info.OS, info.String())
		})
	}
}

func TestParse_Empty(t *testing.T) {
	info := Parse("")
	assert.Equal(t, "Unknown Browser on Unknown OS", info.String())
	assert.JSONEq(t, `{"browser":"Unknown Browser","os":"Unknown OS","ua":""}`, info.JSON())
}

func TestParse_Bot(t *testing.T) {
	info := Parse("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.True(t, info.Bot)
}

func TestInfoJSON(t *testing.T) {
	ua := "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	var decoded Info
	require.NoError(t, json.Unmarshal([]byte(Parse(ua).JSON()), &decoded))
	assert.Equal(t, "Chrome", decoded.Browser)
	assert.Equal(t, "120", decoded.Version)
	assert.Equal(t, ua, decoded.Raw)
}

func TestExtractIPAddress(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ExtractIPAddress(r))

	r.Header.Set("X-Real-IP", "192.168.1.1")
	assert.Equal(t, "192.168.1.1", ExtractIPAddress(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", ExtractIPAddress(r))
}
