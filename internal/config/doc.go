// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It also selects
// which identity and document backends the server wires up.
package config
