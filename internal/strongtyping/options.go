package strongtyping

// Options carries construction flags shared by the object model.
type Options struct {
	// Trusted skips initial validation.
	Trusted bool
}

// Option configures construction.
type Option func(*Options)

// Trusted marks the construction as rehydration of already-validated data.
func Trusted() Option {
	return func(o *Options) {
		o.Trusted = true
	}
}

// Apply folds opts into an Options value.
func Apply(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
