// Package config loads eventbus route configuration.
//
// Configuration is merged from several sources, later sources winning for
// scalar fields and appending to the route list:
//
//  1. Global config in $XDG_CONFIG_HOME/eventbus (or ~/.config/eventbus)
//  2. Project config in the working directory
//  3. The file named by EVENTBUS_CONFIG
//  4. Inline JSON from EVENTBUS_CONFIG_CONTENT
//  5. EVENTBUS_LOG_LEVEL and EVENTBUS_POLICY
//
// In each directory the files eventbus.json, eventbus.jsonc, eventbus.yaml
// and eventbus.yml are read in that order. JSON files may carry comments
// (tidwall/jsonc); string values may reference environment variables with
// {env:NAME}.
//
// Example:
//
//	{
//	  "policy": "collect",
//	  "routes": [
//	    // every session event goes to stdout
//	    {"name": "sessions", "pattern": "^session\\.", "sink": "print"},
//	    {"name": "audit", "event": "user.login", "sink": "log", "filter": "{user}"}
//	  ]
//	}
package config
