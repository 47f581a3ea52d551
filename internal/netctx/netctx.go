// Package netctx extracts the client IP and a short device label from an
// inbound gin request, for the purchase_audit supplement recorded by
// BookingService. Adapted from the teacher's internal/utils/network.go
// (GetRealIP's X-Real-IP/X-Forwarded-For priority) and
// internal/utils/useragent.go (mssola/user_agent parsing), folded into one
// best-effort RequestInfo extractor instead of two separate utility files.
package netctx

import (
	"fmt"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	ua "github.com/mssola/user_agent"
)

// RequestInfo is the provenance captured for a purchase_audit row.
type RequestInfo struct {
	ClientIP string
	Device   string
}

// FromContext extracts RequestInfo from an inbound request. It never fails:
// unparseable or absent data degrades to "unknown" rather than erroring, since
// audit capture is best-effort by design (see database.RecordAuditTx).
func FromContext(c *gin.Context) RequestInfo {
	return RequestInfo{
		ClientIP: realIP(c),
		Device:   deviceLabel(c.Request.UserAgent()),
	}
}

// realIP prefers X-Real-IP, then the first public address in
// X-Forwarded-For, falling back to gin's own ClientIP().
func realIP(c *gin.Context) string {
	if real := strings.TrimSpace(c.Request.Header.Get("X-Real-IP")); real != "" {
		if ip := net.ParseIP(real); ip != nil && !isPrivateIP(ip) {
			return real
		}
	}

	if forwarded := c.Request.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			candidate := strings.TrimSpace(part)
			ip := net.ParseIP(candidate)
			if ip == nil {
				continue
			}
			if !isPrivateIP(ip) && !isLocalhost(candidate) {
				return candidate
			}
		}
	}

	return c.ClientIP()
}

func isLocalhost(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1"
}

func isPrivateIP(ip net.IP) bool {
	for _, cidr := range []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"} {
		_, subnet, err := net.ParseCIDR(cidr)
		if err == nil && subnet.Contains(ip) {
			return true
		}
	}
	return false
}

// deviceLabel condenses a User-Agent string to "platform/browser" for audit
// storage, e.g. "ios/Safari" or "unknown/unknown" when absent.
func deviceLabel(userAgent string) string {
	if userAgent == "" {
		return "unknown/unknown"
	}

	parser := ua.New(userAgent)
	browserName, _ := parser.Browser()
	if browserName == "" {
		browserName = "unknown"
	}

	osName := strings.ToLower(parser.OSInfo().Name)
	platform := "unknown"
	switch {
	case strings.Contains(osName, "android"):
		platform = "android"
	case strings.Contains(osName, "ios") || strings.Contains(osName, "iphone"):
		platform = "ios"
	case strings.Contains(osName, "windows"):
		platform = "windows"
	case strings.Contains(osName, "mac"):
		platform = "mac"
	case strings.Contains(osName, "linux"):
		platform = "linux"
	}

	return fmt.Sprintf("%s/%s", platform, browserName)
}
