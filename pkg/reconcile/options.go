package reconcile

// Options controls one plan or apply run.
type Options struct {
	// Force overwrites diverged user copies, accepting data loss, because
	// the caller explicitly requested it.
	Force bool

	// Sidecar delivers changed defaults to a sidecar path beside diverged
	// user copies instead of skipping them.
	Sidecar bool

	// DryRun computes the full action list without any file write or
	// manifest mutation.
	DryRun bool

	// Prune removes manifest records for templates that are no longer
	// bundled. Conflicts are otherwise reported and left alone; pruning
	// only happens when the caller explicitly asks for it. User files are
	// never deleted.
	Prune bool

	// ToolVersion is recorded on manifest records written by this run.
	ToolVersion string
}

// Option is a function that configures a run.
type Option func(*Options)

// Defaults returns the default options.
func Defaults() *Options {
	return &Options{ToolVersion: "dev"}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithForce overwrites diverged user copies.
func WithForce(enabled bool) Option {
	return func(o *Options) { o.Force = enabled }
}

// WithSidecar writes changed defaults alongside diverged user copies.
func WithSidecar(enabled bool) Option {
	return func(o *Options) { o.Sidecar = enabled }
}

// WithDryRun computes actions without touching disk.
func WithDryRun(enabled bool) Option {
	return func(o *Options) { o.DryRun = enabled }
}

// WithPrune removes tracking records for templates no longer bundled.
func WithPrune(enabled bool) Option {
	return func(o *Options) { o.Prune = enabled }
}

// WithToolVersion sets the version string recorded on manifest records.
func WithToolVersion(version string) Option {
	return func(o *Options) {
		if version != "" {
			o.ToolVersion = version
		}
	}
}
