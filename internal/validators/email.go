// Package validators holds request checks that need more than a binding tag.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address's domain resolves at all.
// Registration rejects addresses on dead domains up front; a confirmation
// mail could never reach them.
func IsEmailDomainValid(email string) bool {
	domain, ok := domainOf(email)
	if !ok {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	// No MX is still deliverable when the domain itself resolves.
	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}

func domainOf(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return "", false
	}
	return email[at+1:], true
}
