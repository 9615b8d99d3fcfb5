package version

// Version is overridden at build time with the release tag.
var Version = "v0.3.1-dev"
