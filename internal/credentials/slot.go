package credentials

import "strings"

// EnvPrefix is shared by every credential environment variable
const EnvPrefix = "SERVICENOW_"

// Slot names one credential value
type Slot string

const (
	SlotInstance   Slot = "instance"
	SlotUsername   Slot = "username"
	SlotPassword   Slot = "password"
	SlotAPIKey     Slot = "api_key"
	SlotOAuthToken Slot = "oauth_token"
)

// Slots lists every slot in resolution order
var Slots = []Slot{SlotInstance, SlotUsername, SlotPassword, SlotAPIKey, SlotOAuthToken}

// EnvVar returns the environment variable consulted for the slot,
// e.g. SERVICENOW_API_KEY.
func (s Slot) EnvVar() string {
	return EnvPrefix + strings.ToUpper(string(s))
}

// Origin records where a slot's effective value came from
type Origin string

const (
	OriginNone        Origin = "none"
	OriginExplicit    Origin = "explicit"
	OriginEnvironment Origin = "environment"
	OriginSecretStore Origin = "secret-store"
)

// Value is a resolved slot
type Value struct {
	Value  string
	Origin Origin
}

// Present reports whether the slot resolved to a non-empty value
func (v Value) Present() bool {
	return v.Value != ""
}

// Set holds the resolution result of every slot
type Set map[Slot]Value

// Get returns the slot's value, or "" when absent
func (s Set) Get(slot Slot) string {
	return s[slot].Value
}

// Has reports whether the slot resolved
func (s Set) Has(slot Slot) bool {
	return s[slot].Present()
}

// OriginOf returns where the slot came from
func (s Set) OriginOf(slot Slot) Origin {
	if v, ok := s[slot]; ok && v.Present() {
		return v.Origin
	}
	return OriginNone
}

// Origins summarizes origins per slot without exposing values
func (s Set) Origins() map[string]string {
	out := make(map[string]string, len(Slots))
	for _, slot := range Slots {
		out[string(slot)] = string(s.OriginOf(slot))
	}
	return out
}
