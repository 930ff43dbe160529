package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/camview/internal/app"
)

var version = "dev"

// errReported marks failures whose details were already written as
// structured output.
var errReported = errors.New("reported")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(viper.New(), os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "camview: %v\n", err)
		}
		return 1
	}
	return 0
}

// newRootCmd builds the command tree around its own viper instance so tests
// get isolated flag and environment state.
func newRootCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "camview",
		Short: "Browse a public camera network from the terminal",
		Long: `camview searches a public camera network by location, shows camera
details and image URLs, and downloads current images.

Running without a subcommand starts the interactive TUI.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), appOptions(v))
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is ~/.mcp-camera/config.json)")
	flags.String("prefs", "", "preferences file (default is ~/.config/camview/prefs.toml)")
	flags.String("log-level", "", "activity log level: debug, info, warn, error")
	flags.String("log-file", "", "activity log path (default is camview.log next to the config file)")
	flags.StringP("output", "o", formatText, "output format: text, json, yaml")

	for _, name := range []string{"config", "prefs", "log-level", "log-file", "output"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	v.SetEnvPrefix("CAMVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(
		newSearchCmd(v),
		newCameraCmd(v),
		newImageURLCmd(v),
		newDownloadCmd(v),
		newLocationsCmd(v),
		newInfoCmd(v),
		newKeyCmd(v),
		newConfigCmd(v),
		newServeCmd(v),
	)
	return cmd
}

func appOptions(v *viper.Viper) app.Options {
	return app.Options{
		ConfigPath: v.GetString("config"),
		PrefsPath:  v.GetString("prefs"),
		LogLevel:   v.GetString("log-level"),
		LogPath:    v.GetString("log-file"),
	}
}

// withRuntime bootstraps the shared components for one command.
func withRuntime(v *viper.Viper, fn func(rt *app.Runtime) error) error {
	rt, err := app.Bootstrap(appOptions(v))
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return fn(rt)
}
