// Package config defines the configuration of an lnrecon process.
//
// The CLI fills a Config from flags and from an optional file in the data
// directory:
//
//  lnrecon.toml // (or .json, .yaml) any option below, by its mapstructure name.
//  lnd/         // recorded lnd responses, unless lnd-dir points elsewhere.
package config
