// Package config loads proseline settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, usually ~/.config/proseline/config.toml
//  3. PROSELINE_* environment variables
//
// The merged result is validated with struct tags before it is returned.
// Watcher reports changes to the config file or a schema file so the
// editor can reload them without restarting.
package config
