package lambdagraphql

import (
	abstractlogger "github.com/jensneuse/abstractlogger"
)

// Options configure the request adapter. Every gate defaults off.
type Options struct {
	// AccessLog logs the operation name and resolved user before
	// execution. Query text and variables are never logged.
	AccessLog bool

	// GzipCompression enables gzip negotiation on responses.
	GzipCompression bool

	// ShowFailureCause includes failure detail in 500 bodies instead of
	// the generic message. Debugging aid; leave off in production.
	ShowFailureCause bool

	// Log receives handler errors and, when AccessLog is on, access
	// entries. Defaults to a no-op logger.
	Log abstractlogger.Logger
}

type Option func(*Options)

func WithAccessLog() Option {
	return func(o *Options) { o.AccessLog = true }
}

func WithGzipCompression() Option {
	return func(o *Options) { o.GzipCompression = true }
}

func WithFailureCause() Option {
	return func(o *Options) { o.ShowFailureCause = true }
}

func WithLogger(log abstractlogger.Logger) Option {
	return func(o *Options) { o.Log = log }
}
