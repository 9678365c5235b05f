// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package sec

// # Request Authentication Context

// GrantUser is the single capability granted to any successfully verified
// bearer of an access token.
const GrantUser = "user"

// Principal is the request-scoped authenticated identity.
//
// # Lifecycle
//
// A Principal is created fresh per request by the authentication middleware,
// travels only inside that request's [context.Context], and is discarded when
// request processing completes. It is never shared across requests.
type Principal struct {
	// MemberID is the numeric identifier of the resolved member record.
	MemberID int64 `json:"member_id"`

	// Email is the stable identity key (the token's subject claim).
	Email string `json:"email"`

	// Grants is the set of capabilities derived for this request.
	Grants []string `json:"grants"`
}

// HasGrant reports whether the principal carries the named capability.
func (p *Principal) HasGrant(grant string) bool {
	for _, g := range p.Grants {
		if g == grant {
			return true
		}
	}
	return false
}

// UserGrants derives the capability set for a verified member.
//
// The member entity itself stays a plain data record; this adapter exists so
// call sites that need an authorization view do not bake capability accessors
// into the domain type.
func UserGrants() []string {
	return []string{GrantUser}
}
