// Package auth picks exactly one ServiceNow authentication method from a
// resolved credential set and translates it to a transport header.
package auth

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"snowloader/internal/credentials"
)

// Method is the chosen authentication scheme
type Method int

const (
	MethodUnresolved Method = iota
	MethodAPIKey
	MethodOAuthBearer
	MethodBasic
)

func (m Method) String() string {
	switch m {
	case MethodAPIKey:
		return "api_key"
	case MethodOAuthBearer:
		return "oauth_bearer"
	case MethodBasic:
		return "basic"
	default:
		return "unresolved"
	}
}

// Decision is the outcome of Select. Only the fields of its Method are set.
type Decision struct {
	Method   Method
	Username string
	Secret   string
	Token    string
}

// APIKey pairs a username with an API key
func APIKey(username, key string) Decision {
	return Decision{Method: MethodAPIKey, Username: username, Secret: key}
}

// OAuthBearer wraps an OAuth access token
func OAuthBearer(token string) Decision {
	return Decision{Method: MethodOAuthBearer, Token: token}
}

// Basic pairs a username with a password
func Basic(username, password string) Decision {
	return Decision{Method: MethodBasic, Username: username, Secret: password}
}

// candidates in precedence order; first satisfied wins
var candidates = []struct {
	method Method
	slots  []credentials.Slot
	build  func(credentials.Set) Decision
}{
	{
		method: MethodAPIKey,
		slots:  []credentials.Slot{credentials.SlotUsername, credentials.SlotAPIKey},
		build: func(s credentials.Set) Decision {
			return APIKey(s.Get(credentials.SlotUsername), s.Get(credentials.SlotAPIKey))
		},
	},
	{
		method: MethodOAuthBearer,
		slots:  []credentials.Slot{credentials.SlotOAuthToken},
		build: func(s credentials.Set) Decision {
			return OAuthBearer(s.Get(credentials.SlotOAuthToken))
		},
	},
	{
		method: MethodBasic,
		slots:  []credentials.Slot{credentials.SlotUsername, credentials.SlotPassword},
		build: func(s credentials.Set) Decision {
			return Basic(s.Get(credentials.SlotUsername), s.Get(credentials.SlotPassword))
		},
	},
}

// Select returns the first satisfiable method: username+api_key, then
// oauth_token, then username+password. When none qualifies it returns a
// *ConfigError naming every method and the variables each one expects.
func Select(creds credentials.Set) (Decision, error) {
	checked := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if satisfied(creds, c.slots) {
			return c.build(creds), nil
		}
		checked = append(checked, describe(c.method, c.slots))
	}

	return Decision{Method: MethodUnresolved}, &ConfigError{
		Reason:  "no ServiceNow authentication method configured",
		Checked: checked,
	}
}

func satisfied(creds credentials.Set, slots []credentials.Slot) bool {
	for _, slot := range slots {
		if !creds.Has(slot) {
			return false
		}
	}
	return true
}

func describe(m Method, slots []credentials.Slot) string {
	names := make([]string, len(slots))
	for i, slot := range slots {
		names[i] = slot.EnvVar()
	}
	return fmt.Sprintf("%s requires %s", m, strings.Join(names, " + "))
}

// NormalizeInstance strips a scheme prefix and trailing slashes so the
// transport can prepend its own scheme.
func NormalizeInstance(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, scheme) {
			s = s[len(scheme):]
			break
		}
	}
	return strings.TrimRight(s, "/")
}

// ResolveInstance returns the normalized instance host. A missing instance
// is a configuration error; there is no fallback.
func ResolveInstance(creds credentials.Set) (string, error) {
	instance := NormalizeInstance(creds.Get(credentials.SlotInstance))
	if instance == "" {
		return "", &ConfigError{
			Reason:  "ServiceNow instance is not configured",
			Checked: []string{"explicit argument", credentials.SlotInstance.EnvVar(), "secret store field " + string(credentials.SlotInstance)},
		}
	}
	return instance, nil
}

// Header translates the decision to an Authorization header. API key and
// basic both use HTTP basic credentials; OAuth uses a bearer token.
func (d Decision) Header() (string, string, error) {
	switch d.Method {
	case MethodAPIKey, MethodBasic:
		raw := d.Username + ":" + d.Secret
		return "Authorization", "Basic " + base64.StdEncoding.EncodeToString([]byte(raw)), nil
	case MethodOAuthBearer:
		return "Authorization", "Bearer " + d.Token, nil
	default:
		return "", "", ErrUnresolved
	}
}

// Apply configures the client with the decision's credentials
func (d Decision) Apply(c *resty.Client) error {
	switch d.Method {
	case MethodAPIKey, MethodBasic:
		c.SetBasicAuth(d.Username, d.Secret)
	case MethodOAuthBearer:
		c.SetAuthToken(d.Token)
	default:
		return ErrUnresolved
	}
	return nil
}

// String never includes secret material
func (d Decision) String() string {
	if d.Username != "" {
		return fmt.Sprintf("%s(user=%s)", d.Method, d.Username)
	}
	return d.Method.String()
}
