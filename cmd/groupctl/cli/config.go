package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ubuntu/decorate"
	"gopkg.in/ini.v1"
)

// Connection file sections and keys.
const (
	// serviceSection describes the remote instance to reconcile against.
	serviceSection = "service"
	hostKey        = "host"
	portKey        = "port"

	// credentialsSection carries the HTTP basic auth credentials.
	credentialsSection = "credentials"
	adminUserKey       = "admin_user"
	adminPasswordKey   = "admin_password"
)

// initViperConfig sets the verbosity level and adds connection file and env
// variable support based on the name prefix.
//
// Precedence is flags, then environment, then the connection file, then the
// flag defaults.
func initViperConfig(name string, cmd *cobra.Command, vip *viper.Viper) (err error) {
	defer decorate.OnError(&err, "can't load configuration")

	// Get cmdline flag for verbosity to configure the logger until everything is parsed.
	v, err := cmd.Flags().GetCount("verbosity")
	if err != nil {
		return fmt.Errorf("internal error: no persistent verbosity flag installed on cmd: %w", err)
	}
	setVerboseMode(v)

	// The connection file only provides defaults, so that flags and env win.
	if path, err := cmd.Flags().GetString("config"); err == nil && path != "" {
		if err := loadConnectionFile(path, vip); err != nil {
			return err
		}
		slog.Info(fmt.Sprintf("Using connection file: %v", path))
	}

	// Handle environment.
	vip.SetEnvPrefix(name)
	vip.AutomaticEnv()

	// Visit the environment manually to bind every possibly related variable
	// so they can be unmarshalled into a struct.
	// More context on https://github.com/spf13/viper/pull/1429.
	prefix := strings.ToUpper(name) + "_"
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, prefix) {
			continue
		}

		s := strings.Split(e, "=")
		k := strings.ToLower(strings.TrimPrefix(s[0], prefix))
		if err := vip.BindEnv(k, s[0]); err != nil {
			return fmt.Errorf("could not bind environment variable: %w", err)
		}
	}

	return nil
}

// installConfigFlag installs a --config option selecting the connection file.
func installConfigFlag(cmd *cobra.Command) *string {
	return cmd.PersistentFlags().StringP("config", "c", "", "use a specific connection file")
}

// loadConnectionFile parses the ini connection file and registers its values
// as viper defaults.
func loadConnectionFile(path string, vip *viper.Viper) error {
	iniCfg, err := ini.Load(path)
	if err != nil {
		return err
	}

	// Check if any of the keys still contain the placeholders.
	for _, section := range iniCfg.Sections() {
		for _, key := range section.Keys() {
			if strings.Contains(key.Value(), "<") && strings.Contains(key.Value(), ">") {
				err = errors.Join(err, fmt.Errorf("found invalid character in section %q, key %q", section.Name(), key.Name()))
			}
		}
	}
	if err != nil {
		return fmt.Errorf("connection file has invalid values, did you edit the file %q?\n%w", path, err)
	}

	if service := iniCfg.Section(serviceSection); service != nil {
		if service.HasKey(hostKey) {
			vip.SetDefault("host", service.Key(hostKey).String())
		}
		if service.HasKey(portKey) {
			port, err := service.Key(portKey).Int()
			if err != nil {
				return fmt.Errorf("invalid port in connection file %q: %w", path, err)
			}
			vip.SetDefault("port", port)
		}
	}

	if creds := iniCfg.Section(credentialsSection); creds != nil {
		if creds.HasKey(adminUserKey) {
			vip.SetDefault("admin_user", creds.Key(adminUserKey).String())
		}
		if creds.HasKey(adminPasswordKey) {
			vip.SetDefault("admin_password", creds.Key(adminPasswordKey).String())
		}
	}

	return nil
}
