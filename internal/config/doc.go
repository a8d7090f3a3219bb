// Package config loads ktree settings with viper from defaults, an optional
// config file, KTREE_* environment variables and command line flags.
package config
