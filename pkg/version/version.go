package version

// Version is the citygen release, overridden at build time via -ldflags.
var Version = "v0.1.0"
