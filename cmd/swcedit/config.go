package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"

	// Output flags shared by new, normalize and convert
	FlagOutput = "output"

	// Inspect command flags
	FlagJSON  = "json"
	FlagYAML  = "yaml"
	FlagCheck = "check"

	// Edit command flags
	FlagExportDir = "export-dir"
	FlagDensity   = "density"

	// Events command flags
	FlagFollow = "follow"
	FlagCount  = "count"
)
