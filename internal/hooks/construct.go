package hooks

import "github.com/roach88/vaultsdk/internal/strongtyping"

type validator interface {
	validate() error
}

// construct validates v unless the options mark it trusted.
func construct[T any, P interface {
	*T
	validator
}](v T, opts []strongtyping.Option) (*T, error) {
	if !strongtyping.Apply(opts).Trusted {
		if err := P(&v).validate(); err != nil {
			return nil, err
		}
	}
	return &v, nil
}
