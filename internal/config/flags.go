package config

import (
	"flag"
	"fmt"
	"sort"
)

var usage = map[string]string{
	"address":          "HTTP listen address",
	"source-url":       "Dataset location (https://, gs://, bq://, file:// or a local path)",
	"log-level":        "Log level (debug, info, warn, error)",
	"fetch-timeout":    "Timeout for downloading the dataset over HTTP",
	"read-timeout":     "HTTP server read timeout",
	"write-timeout":    "HTTP server write timeout",
	"gcp-project":      "BigQuery billing project",
	"credentials-file": "GCP service account credentials file",
}

// Flags binds every configuration key to a command-line flag.
type Flags struct {
	fs   *flag.FlagSet
	path *string
}

// RegisterFlags registers -config plus one flag per configuration key on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	f.path = fs.String("config", "", "Path to a config file (JSON or YAML)")

	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fs.String(key, fmt.Sprint(defaults[key]), usage[key])
	}
	return f
}

// Overrides returns the flags that were set explicitly, keyed by config key.
// Must be called after fs.Parse.
func (f *Flags) Overrides() map[string]interface{} {
	out := make(map[string]interface{})
	f.fs.Visit(func(fl *flag.Flag) {
		if _, ok := defaults[fl.Name]; ok {
			out[fl.Name] = fl.Value.String()
		}
	})
	return out
}

// Load resolves the configuration from the parsed flags.
func (f *Flags) Load() (*Config, error) {
	return Load(*f.path, f.Overrides())
}
