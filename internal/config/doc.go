// Package config defines release tool settings and provides helpers to
// load, validate and save them in YAML format.
//
// Settings cover the repository location, the git remote/branch pushed on
// release, the tag prefix, and the paths of the version record and the
// release history database. A missing settings file yields defaults so the
// tool works in a bare checkout.
package config
