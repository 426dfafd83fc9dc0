// Package config loads codepad configuration for the CLI.
//
// The configuration types live in internal/config so the server and the
// terminal front end can use them without importing the CLI. They are
// re-exported here via type aliases for convenience.
package config

import intconfig "github.com/leapstack-labs/codepad/internal/config"

// Config is an alias for the shared configuration.
type Config = intconfig.Config

// UIConfig is an alias for the shared UI server configuration.
type UIConfig = intconfig.UIConfig

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "CODEPAD_"
