package login

import (
	"context"
	"strings"
)

// Identity is one of the linked identities in a user's Globus identity set.
type Identity struct {
	Sub      string `json:"sub"`
	Username string `json:"username"`
}

// IdentitySource fetches the identity set of the logged in user.
type IdentitySource interface {
	IdentitySet(ctx context.Context) ([]Identity, error)
}

// ResolveIdentities returns the subs of identities whose username contains any of
// domains, in identity set order.
//
// Matching is plain substring containment, so "obus.org" also matches
// "user@globus.org".
func ResolveIdentities(domains []string, set []Identity) []string {
	var subs []string
	for _, ident := range set {
		for _, domain := range domains {
			if strings.Contains(ident.Username, domain) {
				subs = append(subs, ident.Sub)
				break
			}
		}
	}
	return subs
}
