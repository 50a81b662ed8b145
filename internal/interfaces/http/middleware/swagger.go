package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls who may read the API documentation
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string // single addresses or CIDR ranges; empty allows all
}

// SwaggerProtection guards the /swagger routes. A disabled endpoint answers
// 404; the IP list is checked before the token so that blocked callers learn
// nothing about authentication.
func SwaggerProtection(cfg SwaggerConfig, auth gin.HandlerFunc) gin.HandlerFunc {
	allow := parseAllowList(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "API documentation is not available",
				},
			})
			return
		}
		if len(cfg.AllowedIPs) > 0 && !allow.contains(net.ParseIP(c.ClientIP())) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Access to API documentation is restricted",
				},
			})
			return
		}
		if cfg.RequireAuth && auth != nil {
			auth(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}

type allowList struct {
	ips  []net.IP
	nets []*net.IPNet
}

// parseAllowList skips malformed entries
func parseAllowList(entries []string) allowList {
	var l allowList
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if strings.Contains(e, "/") {
			if _, n, err := net.ParseCIDR(e); err == nil {
				l.nets = append(l.nets, n)
			}
			continue
		}
		if ip := net.ParseIP(e); ip != nil {
			l.ips = append(l.ips, ip)
		}
	}
	return l
}

func (l allowList) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, a := range l.ips {
		if a.Equal(ip) {
			return true
		}
	}
	for _, n := range l.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
