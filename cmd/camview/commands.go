package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/camview/internal/app"
	"github.com/five82/camview/internal/bridge"
	"github.com/five82/camview/internal/geo"
	"github.com/five82/camview/internal/service"
)

const defaultBridgeAddr = "127.0.0.1:8765"

// runResult bootstraps, runs one service call and prints its result.
func runResult(cmd *cobra.Command, v *viper.Viper, title string, fn func(rt *app.Runtime) service.Result) error {
	p, err := newPrinter(cmd.OutOrStdout(), v.GetString("output"))
	if err != nil {
		return err
	}
	return withRuntime(v, func(rt *app.Runtime) error {
		return p.print(title, fn(rt))
	})
}

func newSearchCmd(v *viper.Viper) *cobra.Command {
	var (
		lat, lng, radius, location string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search cameras near a coordinate or a popular location",
		Example: `  camview search --lat 37.7749 --lng -122.4194 --radius 25
  camview search --location yosemite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := service.SearchRequest{Lat: lat, Lng: lng, Radius: radius}
			if location != "" {
				loc, ok := geo.FindByName(location)
				if !ok {
					return fmt.Errorf("unknown location %q; see camview locations", location)
				}
				req.Lat = strconv.FormatFloat(loc.Lat, 'f', -1, 64)
				req.Lng = strconv.FormatFloat(loc.Lng, 'f', -1, 64)
				if !cmd.Flags().Changed("radius") {
					req.Radius = strconv.Itoa(loc.RadiusMiles)
				}
			}
			return runResult(cmd, v, "Camera Search Results", func(rt *app.Runtime) service.Result {
				return rt.Service.Search(cmd.Context(), req)
			})
		},
	}
	cmd.Flags().StringVar(&lat, "lat", "", "latitude (-90 to 90)")
	cmd.Flags().StringVar(&lng, "lng", "", "longitude (-180 to 180)")
	cmd.Flags().StringVar(&radius, "radius", "", "search radius in miles (1 to 500, default from prefs)")
	cmd.Flags().StringVarP(&location, "location", "l", "", "popular location name (overrides --lat/--lng)")
	cmd.MarkFlagsMutuallyExclusive("location", "lat")
	cmd.MarkFlagsMutuallyExclusive("location", "lng")
	return cmd
}

func newCameraCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "camera <id>",
		Short: "Show camera details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(cmd, v, "Camera Details", func(rt *app.Runtime) service.Result {
				return rt.Service.Get(cmd.Context(), args[0])
			})
		},
	}
}

func newImageURLCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "image-url <id>",
		Short: "Show the current image URL of a camera",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(cmd, v, "Camera Image URL", func(rt *app.Runtime) service.Result {
				return rt.Service.GetImageURL(cmd.Context(), args[0])
			})
		},
	}
}

func newDownloadCmd(v *viper.Viper) *cobra.Command {
	var dest string
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download the current image of a camera",
		Long: `Download the current image of a camera.

Without --out the image is saved as camera_<id>_<YYYY-MM-DD>.jpg in the
working directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(cmd, v, "Image saved", func(rt *app.Runtime) service.Result {
				return rt.Service.Download(cmd.Context(), args[0], dest)
			})
		},
	}
	cmd.Flags().StringVar(&dest, "out", "", "destination file")
	return cmd
}

func newLocationsCmd(v *viper.Viper) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List popular camera locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), v.GetString("output"))
			if err != nil {
				return err
			}
			name, ok := canonicalCategory(category)
			if !ok {
				return fmt.Errorf("unknown category %q (want one of: %s)", category, strings.Join(geo.Categories(), ", "))
			}
			return p.print("Popular Locations", service.Result{Success: true, Data: geo.ByCategory(name)})
		},
	}
	cmd.Flags().StringVar(&category, "category", geo.CategoryAll, "filter by category")
	return cmd
}

// canonicalCategory matches category case-insensitively.
func canonicalCategory(category string) (string, bool) {
	for _, c := range geo.Categories() {
		if strings.EqualFold(c, strings.TrimSpace(category)) {
			return c, true
		}
	}
	return "", false
}

func newInfoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show API usage and server info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResult(cmd, v, "API Usage and Server Info", func(rt *app.Runtime) service.Result {
				return rt.Service.ServerInfo(cmd.Context())
			})
		},
	}
}

func newKeyCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the API key",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runResult(cmd, v, "", func(rt *app.Runtime) service.Result {
					return rt.Service.GetKey()
				})
			},
		},
		&cobra.Command{
			Use:   "set <key>",
			Short: "Store an existing API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runResult(cmd, v, "API key saved", func(rt *app.Runtime) service.Result {
					return rt.Service.SetKey(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "register <email>",
			Short: "Register an email address and store the issued key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runResult(cmd, v, "API key registered", func(rt *app.Runtime) service.Result {
					return rt.Service.Register(cmd.Context(), args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check the stored API key against the server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runResult(cmd, v, "", func(rt *app.Runtime) service.Result {
					return rt.Service.Validate(cmd.Context())
				})
			},
		},
	)
	return cmd
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the masked key, endpoint and key state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runResult(cmd, v, "Settings", func(rt *app.Runtime) service.Result {
					return rt.Service.Settings()
				})
			},
		},
		&cobra.Command{
			Use:   "set-url [url]",
			Short: "Change the API endpoint; no argument restores the default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var rawURL string
				if len(args) == 1 {
					rawURL = args[0]
				}
				return runResult(cmd, v, "API URL", func(rt *app.Runtime) service.Result {
					return rt.Service.SetURL(rawURL)
				})
			},
		},
	)
	return cmd
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP bridge for desktop front ends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr := v.GetString("addr")
			return withRuntime(v, func(rt *app.Runtime) error {
				listener, err := net.Listen("tcp", addr)
				if err != nil {
					return fmt.Errorf("listen on %s: %w", addr, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "camview bridge listening on http://%s/api\n", listener.Addr())
				srv := bridge.New(bridge.Options{
					Service:        rt.Service,
					Logger:         rt.Logger.With().Str("component", "bridge").Logger(),
					AccessLog:      rt.Logger,
					AllowedOrigins: v.GetStringSlice("origins"),
				})
				return srv.Serve(cmd.Context(), listener)
			})
		},
	}
	cmd.Flags().String("addr", defaultBridgeAddr, "listen address")
	cmd.Flags().StringSlice("origins", nil, "allowed browser origins, one \"*\" wildcard each (default localhost, 127.0.0.1 and [::1] pages only)")
	_ = v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("origins", cmd.Flags().Lookup("origins"))
	return cmd
}
