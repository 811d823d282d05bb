package credentials

import "context"

// Source is one origin for a slot value. It reports false when it has
// nothing to offer.
type Source struct {
	Origin Origin
	Fetch  func(ctx context.Context) (string, bool)
}

// SecretLookup reads a field of a secret-store item
type SecretLookup interface {
	Lookup(ctx context.Context, item, field string) (string, bool)
}

// Explicit offers a caller-supplied value
func Explicit(value string) Source {
	return Source{
		Origin: OriginExplicit,
		Fetch: func(context.Context) (string, bool) {
			return value, value != ""
		},
	}
}

// Env offers the value of an environment variable
func Env(getenv func(string) string, name string) Source {
	return Source{
		Origin: OriginEnvironment,
		Fetch: func(context.Context) (string, bool) {
			if name == "" || getenv == nil {
				return "", false
			}
			value := getenv(name)
			return value, value != ""
		},
	}
}

// SecretStore offers a field of a secret-store item. A nil store offers nothing.
func SecretStore(store SecretLookup, item, field string) Source {
	return Source{
		Origin: OriginSecretStore,
		Fetch: func(ctx context.Context) (string, bool) {
			if store == nil || item == "" || field == "" {
				return "", false
			}
			value, ok := store.Lookup(ctx, item, field)
			return value, ok && value != ""
		},
	}
}

// First evaluates sources in order and returns the first non-empty value.
// Later sources are not consulted once one succeeds.
func First(ctx context.Context, sources ...Source) Value {
	for _, src := range sources {
		if value, ok := src.Fetch(ctx); ok && value != "" {
			return Value{Value: value, Origin: src.Origin}
		}
	}
	return Value{Origin: OriginNone}
}
