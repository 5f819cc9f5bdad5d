// Package config loads the plugin host's configuration from environment
// variables: the ordered plugin folder list, the enabled-plugin allow-list,
// reload behavior, logging and metrics switches.
package config
