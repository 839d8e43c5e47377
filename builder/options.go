package builder

import "log"

// Options configures [Build] and [BuildRegistry].
type Options struct {
	// EnableRLE8 makes the builder also try RLE8 as a candidate encoding. Off
	// by default, since only RAW and LZSS containers are understood by every
	// reader.
	EnableRLE8 bool
	// Logger receives one line per file describing the encoding chosen. Nil
	// disables logging.
	Logger *log.Logger
}

// DefaultOptions returns options for default behavior: RAW and LZSS candidates
// only, no logging.
func DefaultOptions() *Options {
	return &Options{}
}

func (opts *Options) logf(format string, args ...any) {
	if opts.Logger != nil {
		opts.Logger.Printf(format, args...)
	}
}
