// Package config provides configuration loading, merging, and validation
// facilities for the gateway worker.
//
// A worker receives its configuration exactly once, either from the
// supervising process as a bootstrap message ([ParseBootstrap]) or from its
// own environment, assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables (GATEWAY_ prefix)
//  2. Command-line flags
//  3. JSON config file
//
// Both paths end in the same validated, immutable [Config] value.
package config
