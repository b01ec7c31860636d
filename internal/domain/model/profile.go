// Package model contains the domain entities for the credential store.
package model

import "strings"

// ServiceCredential holds the OAuth-style secrets for one external
// accounting service. All fields are opaque strings; the empty string is a
// valid "unset" value, there is no null state.
type ServiceCredential struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Region       string
	Environment  string
}

// ClientProfile is a named client and its credentials per service, keyed by
// a free-form service name such as "deputy", "xero" or "quickbooks".
// Display names are the profile's identity within a store and are compared
// case-insensitively.
type ClientProfile struct {
	DisplayName string
	Services    map[string]ServiceCredential
}

// NameEquals reports whether the profile's display name matches name,
// ignoring case.
func (p ClientProfile) NameEquals(name string) bool {
	return strings.EqualFold(p.DisplayName, name)
}

// Clone returns a deep copy. The store hands out clones so callers can never
// mutate the live snapshot through a returned profile.
func (p ClientProfile) Clone() ClientProfile {
	out := ClientProfile{DisplayName: p.DisplayName}
	if p.Services != nil {
		out.Services = make(map[string]ServiceCredential, len(p.Services))
		for service, cred := range p.Services {
			out.Services[service] = cred
		}
	}
	return out
}
