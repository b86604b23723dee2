package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds CLI configuration shared by all commands
type Config struct {
	ServerURL string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8080",
		Output:    "text",
	}
}

// newViper creates the environment binding used by every command.
// CROSSFIRE_SERVER overrides --server, and so on.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CROSSFIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags lets environment variables fill any flag the user didn't set
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

// applyEnv binds a command's flags (and persistent flags) to the environment
func applyEnv(cmd *cobra.Command) {
	v := newViper()
	bindFlags(v, cmd.PersistentFlags())
	bindFlags(v, cmd.Flags())
	for _, sub := range cmd.Commands() {
		applyEnv(sub)
	}
}
