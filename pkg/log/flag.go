package log

import (
	"flag"
)

// EncodingFlag registers a command line flag for the log encoding.
// Validation happens in New, not here.
func EncodingFlag(name string, defaultEncoding Encoding, usage string) *Encoding {
	e := defaultEncoding
	flag.Var(&e, name, usage)
	return &e
}
