// Package cli implements the groupctl command line application.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aem-tools/groupctl/internal/consts"
	"github.com/aem-tools/groupctl/internal/log"
)

// App encapsulates the commands and options of groupctl, which can be
// controlled by env variables and configuration files.
type App struct {
	rootCmd cobra.Command
	viper   *viper.Viper
	config  appConfig

	name string

	ctx    context.Context
	cancel context.CancelFunc
}

// appConfig defines the connection parameters of the remote instance.
type appConfig struct {
	Verbosity int

	Host          string
	Port          int
	AdminUser     string `mapstructure:"admin_user"`
	AdminPassword string `mapstructure:"admin_password"`
}

// New registers commands and returns a new App.
func New(name string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := App{name: name, ctx: ctx, cancel: cancel}
	a.rootCmd = cobra.Command{
		Use:   fmt.Sprintf("%s COMMAND", name),
		Short: fmt.Sprintf("%s remote group manager", name),
		Long:  fmt.Sprintf("%s reconciles declared group states against the administrative HTTP endpoint of a remote instance.", name),
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// First thing, initialize the log handler.
			log.Init()

			// Command parsing has been successful, so don't print the usage message on errors anymore.
			a.rootCmd.SilenceUsage = true

			if err := initViperConfig(name, &a.rootCmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration into struct: %w", err)
			}

			setVerboseMode(a.config.Verbosity)
			slog.Debug(fmt.Sprintf("Version: %s", consts.Version))

			return nil
		},
		// We display usage errors ourselves.
		SilenceErrors: true,
	}
	a.viper = viper.New()

	installVerbosityFlag(&a.rootCmd, a.viper)
	installConfigFlag(&a.rootCmd)
	installConnectionFlags(&a.rootCmd, a.viper)

	// subcommands
	a.installApply()
	a.installVersion()

	return &a
}

// installVerbosityFlag adds the -v and -vv options and returns the reference to it.
func installVerbosityFlag(cmd *cobra.Command, vip *viper.Viper) *int {
	r := cmd.PersistentFlags().CountP("verbosity", "v", "issue INFO (-v) or DEBUG (-vv) output")
	if err := vip.BindPFlag("verbosity", cmd.PersistentFlags().Lookup("verbosity")); err != nil {
		slog.Warn(err.Error())
	}
	return r
}

// installConnectionFlags adds the flags selecting the remote instance and its credentials.
func installConnectionFlags(cmd *cobra.Command, vip *viper.Viper) {
	cmd.PersistentFlags().String("host", "", "host of the remote instance")
	cmd.PersistentFlags().Int("port", consts.DefaultPort, "port of the administrative endpoint")
	cmd.PersistentFlags().String("admin-user", "", "user for HTTP basic authentication")
	cmd.PersistentFlags().String("admin-password", "", "password for HTTP basic authentication")

	for key, flag := range map[string]string{
		"host":           "host",
		"port":           "port",
		"admin_user":     "admin-user",
		"admin_password": "admin-password",
	} {
		if err := vip.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			slog.Warn(err.Error())
		}
	}
}

// setVerboseMode changes the log level between non, middly and very verbose.
func setVerboseMode(level int) {
	switch level {
	case 0:
		log.SetLevel(consts.DefaultLevelLog)
	case 1:
		log.SetLevel(slog.LevelInfo)
	default:
		log.SetLevel(slog.LevelDebug)
	}
}

// Run executes the command and associated process. It returns an error on syntax/usage error.
func (a *App) Run() error {
	return a.rootCmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.rootCmd.SilenceUsage
}

// Quit aborts the current invocation, cancelling any in-flight request.
func (a *App) Quit() {
	a.cancel()
}
