package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearnight/skywatch/internal/app"
	"github.com/clearnight/skywatch/internal/astro"
	"github.com/clearnight/skywatch/internal/celestrak"
	"github.com/clearnight/skywatch/internal/config"
	"github.com/clearnight/skywatch/internal/geocode"
	"github.com/clearnight/skywatch/internal/logger"
	"github.com/clearnight/skywatch/internal/notify"
	"github.com/clearnight/skywatch/internal/weather"
)

var (
	configPath  string
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "skywatch",
	Short: "Skywatch finds satellite passes worth watching.",
	Long: `Skywatch predicts when satellites cross your sky and correlates each
pass with the weather and astronomy forecast, so you only go outside for
passes that are sunlit, dark, and under a clear sky.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)

		var notifier app.Notifier
		if cfg.Telegram.Enabled {
			client, err := notify.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, 3, time.Second)
			if err != nil {
				return fmt.Errorf("failed to initialize Telegram client: %w", err)
			}
			notifier = client
		}

		application = app.New(
			geocode.NewClient(cfg.Geocode.APIBaseURL, cfg.Geocode.Timeout),
			weather.NewClient(cfg.Weather.APIBaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout),
			celestrak.NewSource(
				celestrak.NewFetcher(cfg.Elements.CatalogURL, cfg.Elements.Timeout, cfg.Elements.MinInterval),
				celestrak.NewStore(cfg.Elements.CachePath),
			),
			app.Options{
				MinElevationDeg: cfg.Ephemeris.MinElevationDeg,
				Step:            cfg.Ephemeris.Step,
				WindowDays:      cfg.Ephemeris.WindowDays,
				Notifier:        notifier,
			},
		)
		return nil
	},
}

var (
	findAddress    string
	findLat        string
	findLon        string
	findSatellites []string
	findAll        bool
	findOptimal    bool
	findSunlit     bool
	findNight      bool
	findClear      bool
	findMoonWarn   bool
	findDropMoon   bool
	findShowSunlit bool
	findExport     string
	findNotify     bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find upcoming passes for one or more satellites",
	Long: `Find predicts passes over the next forecast window, starting tomorrow,
and filters them against the weather and astronomy forecast.

Coordinates accept decimal degrees or sexagesimal form, e.g. --lat "54deg 33' 03.7\"".

Examples:
  skywatch find --address "Quebec City" --sat "ISS (ZARYA)" --optimal
  skywatch find --lat 46.81 --lon -71.20 --all --optimal --export passes.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := app.Request{
			Address:    findAddress,
			Satellites: findSatellites,
			All:        findAll,
		}
		if findOptimal {
			req.Filters = app.OptimalViewing()
		} else {
			req.Filters = app.Filters{
				SunlitOnly:   findSunlit,
				NightOnly:    findNight,
				ClearOnly:    findClear,
				MoonWarnings: findMoonWarn,
				DropMoonlit:  findDropMoon,
				ShowSunlit:   findShowSunlit,
			}
		}

		if findAddress == "" {
			if findLat == "" || findLon == "" {
				return fmt.Errorf("either --address or both --lat and --lon are required")
			}
			lat, err := astro.ParseCoordinate(findLat)
			if err != nil {
				return fmt.Errorf("invalid --lat: %w", err)
			}
			lon, err := astro.ParseCoordinate(findLon)
			if err != nil {
				return fmt.Errorf("invalid --lon: %w", err)
			}
			req.Latitude, req.Longitude = lat, lon
		}

		listing, err := application.FindPasses(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Print(listing)

		if findExport != "" {
			if err := app.Export(findExport, listing); err != nil {
				return err
			}
			logger.Info("Listing exported to %s", findExport)
		}
		if findNotify {
			if err := application.Deliver(listing); err != nil {
				return fmt.Errorf("failed to deliver listing: %w", err)
			}
		}
		return nil
	},
}

var satellitesCmd = &cobra.Command{
	Use:   "satellites",
	Short: "List the satellite names in today's element catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := application.SatelliteNames(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var (
	positionLat string
	positionLon string
	positionAt  string
)

var positionCmd = &cobra.Command{
	Use:   "position <satellite name>",
	Short: "Show where a satellite sits in your sky at a UTC instant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := astro.ParseCoordinate(positionLat)
		if err != nil {
			return fmt.Errorf("invalid --lat: %w", err)
		}
		lon, err := astro.ParseCoordinate(positionLon)
		if err != nil {
			return fmt.Errorf("invalid --lon: %w", err)
		}

		at := time.Now().UTC()
		if positionAt != "" {
			at, err = time.Parse("2006-01-02 15:04:05", positionAt)
			if err != nil {
				return fmt.Errorf("invalid --at, use \"2006-01-02 15:04:05\" UTC: %w", err)
			}
		}

		pos, err := application.Position(cmd.Context(), args[0], lat, lon, at)
		if err != nil {
			return err
		}
		fmt.Printf("%s at %s UTC:\n", args[0], at.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Altitude:  %.1f°\n", pos.AltitudeDeg)
		fmt.Printf("  Azimuth:   %.1f° (%s)\n", pos.AzimuthDeg, pos.Cardinal)
		fmt.Printf("  Range:     %.0f km\n", pos.RangeKm)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path to configuration file")

	findCmd.Flags().StringVar(&findAddress, "address", "", "Observer address, resolved via geocoding")
	findCmd.Flags().StringVar(&findLat, "lat", "", "Observer latitude (decimal or sexagesimal)")
	findCmd.Flags().StringVar(&findLon, "lon", "", "Observer longitude (decimal or sexagesimal)")
	findCmd.Flags().StringSliceVar(&findSatellites, "sat", nil, "Satellite catalog name (repeatable)")
	findCmd.Flags().BoolVar(&findAll, "all", false, "Predict the popular satellite set")
	findCmd.Flags().BoolVar(&findOptimal, "optimal", false, "Apply the optimal-viewing filter set")
	findCmd.Flags().BoolVar(&findSunlit, "sunlit", false, "Keep only passes where the satellite is lit")
	findCmd.Flags().BoolVar(&findNight, "night", false, "Keep only passes after dark")
	findCmd.Flags().BoolVar(&findClear, "clear", false, "Keep only passes under a clear sky")
	findCmd.Flags().BoolVar(&findMoonWarn, "moon-warnings", false, "Warn when the moon may wash out a pass")
	findCmd.Flags().BoolVar(&findDropMoon, "drop-moonlit", false, "Drop passes the moon may wash out")
	findCmd.Flags().BoolVar(&findShowSunlit, "show-sunlit", false, "Show each pass's sunlit state")
	findCmd.Flags().StringVar(&findExport, "export", "", "Write the listing to this file")
	findCmd.Flags().BoolVar(&findNotify, "notify", false, "Deliver the listing via Telegram")

	positionCmd.Flags().StringVar(&positionLat, "lat", "", "Observer latitude (decimal or sexagesimal)")
	positionCmd.Flags().StringVar(&positionLon, "lon", "", "Observer longitude (decimal or sexagesimal)")
	positionCmd.Flags().StringVar(&positionAt, "at", "", "UTC instant, \"2006-01-02 15:04:05\" (default now)")
	positionCmd.MarkFlagRequired("lat")
	positionCmd.MarkFlagRequired("lon")

	rootCmd.AddCommand(findCmd, satellitesCmd, positionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
