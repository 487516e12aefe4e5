package cli

import "io"

// AppConfig is the resolved configuration, exported for tests.
//
//nolint:revive // AppConfig is a type alias for tests
type AppConfig = appConfig

// Config returns the resolved configuration for tests.
func (a App) Config() AppConfig {
	return a.config
}

// SetArgs sets some arguments on the root command for tests.
func (a *App) SetArgs(args ...string) {
	a.rootCmd.SetArgs(args)
}

// SetOut overrides the output writer of the commands for tests.
func (a *App) SetOut(w io.Writer) {
	a.rootCmd.SetOut(w)
}
