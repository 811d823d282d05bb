package credentials

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"snowloader/internal/logger"
)

// DefaultItem is the 1Password item consulted when none is configured
const DefaultItem = "ServiceNow"

// ExplicitValues holds per-slot values from CLI flags or the config file
type ExplicitValues struct {
	Instance   string
	Username   string
	Password   string
	APIKey     string
	OAuthToken string
}

func (e ExplicitValues) get(slot Slot) string {
	switch slot {
	case SlotInstance:
		return e.Instance
	case SlotUsername:
		return e.Username
	case SlotPassword:
		return e.Password
	case SlotAPIKey:
		return e.APIKey
	case SlotOAuthToken:
		return e.OAuthToken
	}
	return ""
}

// Resolver resolves slots from explicit values, the environment and a
// secret store. The zero value reads the process environment and has no
// secret store.
type Resolver struct {
	// Getenv defaults to os.Getenv
	Getenv func(string) string
	// Store is optional
	Store SecretLookup
	// Item is the secret-store item; DefaultItem when empty
	Item string
	// Fields overrides the secret-store field name per slot; the slot
	// name is used otherwise
	Fields map[Slot]string
	// Logger defaults to the global logger
	Logger *zerolog.Logger
}

// Resolve returns the effective value for one slot: explicit wins outright,
// then the environment variable, then the secret-store field. It returns
// false when every origin is empty.
func (r *Resolver) Resolve(ctx context.Context, slot Slot, explicit, envName, item, field string) (string, bool) {
	v := r.resolve(ctx, explicit, envName, item, field)
	r.log().Debug().Str("slot", string(slot)).Str("origin", string(v.Origin)).Msg("credential slot resolved")
	return v.Value, v.Present()
}

// ResolveAll resolves every slot independently using the standard
// environment names and secret-store fields.
func (r *Resolver) ResolveAll(ctx context.Context, explicit ExplicitValues) Set {
	set := make(Set, len(Slots))
	for _, slot := range Slots {
		v := r.resolve(ctx, explicit.get(slot), slot.EnvVar(), r.item(), r.field(slot))
		set[slot] = v
	}

	r.log().Debug().Interface("origins", set.Origins()).Msg("credentials resolved")
	return set
}

func (r *Resolver) resolve(ctx context.Context, explicit, envName, item, field string) Value {
	return First(ctx,
		Explicit(explicit),
		Env(r.getenv(), envName),
		SecretStore(r.Store, item, field),
	)
}

func (r *Resolver) getenv() func(string) string {
	if r.Getenv != nil {
		return r.Getenv
	}
	return os.Getenv
}

func (r *Resolver) item() string {
	if r.Item != "" {
		return r.Item
	}
	return DefaultItem
}

func (r *Resolver) field(slot Slot) string {
	if f, ok := r.Fields[slot]; ok && f != "" {
		return f
	}
	return string(slot)
}

func (r *Resolver) log() *zerolog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	l := logger.WithComponent("credentials")
	return &l
}
