package helpers

// Version is overridden at build time with -ldflags "-X ...helpers.Version=".
var Version = "0.1.0-dev"
