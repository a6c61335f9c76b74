// Package config loads and validates the ticket monitor configuration.
//
// Configuration is read from a JSON (JSON5 tolerated) or YAML file. A sibling
// <name>.local.<ext> file, when present, is merged over it. Credentials may be
// supplied through environment variables, optionally loaded from a .env file,
// which take precedence over file values.
package config
