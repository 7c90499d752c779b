// Package config loads run settings from the environment and the selector
// table the site adapter drives the browser with.
package config
