package session

import "context"

type contextKey string

const storeContextKey contextKey = "store"

// WithStore returns a context carrying the Store for one navigation.
func WithStore(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, storeContextKey, s)
}

// StoreFrom returns the Store carried by ctx, or an empty Store.
func StoreFrom(ctx context.Context) Store {
	if s, ok := ctx.Value(storeContextKey).(Store); ok && s != nil {
		return s
	}
	return empty{}
}
