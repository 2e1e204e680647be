package psf

// options carries Load's configuration, defaulting exactly to spec.md
// §4.4's `load(path, sep=":", use_cache=true, update_cache=true)`.
type options struct {
	sep         string
	useCache    bool
	updateCache bool
}

func defaultOptions() options {
	return options{sep: ":", useCache: true, updateCache: true}
}

// Option configures a Load call.
type Option func(*options)

// WithSeparator overrides the separator in a swept struct trace's member
// names, "<trace name><sep><member name>". The default is ":". Group
// members keep their bare names, and DC struct entries always use ".".
func WithSeparator(sep string) Option {
	return func(o *options) { o.sep = sep }
}

// WithCache controls whether an existing, fresh cache file may be used to
// satisfy the load. Default true.
func WithCache(enabled bool) Option {
	return func(o *options) { o.useCache = enabled }
}

// WithCacheUpdate controls whether a successful parse is written back to
// the cache file. Default true.
func WithCacheUpdate(enabled bool) Option {
	return func(o *options) { o.updateCache = enabled }
}
