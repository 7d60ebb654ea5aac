package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/santeconnect/careconnect/internal/application/services"
	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/domain/providers"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
	"github.com/santeconnect/careconnect/pkg/config"
)

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search healthcare establishments around a position",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lng, _ := cmd.Flags().GetFloat64("lng")
			radius, _ := cmd.Flags().GetInt("radius")
			specialty, _ := cmd.Flags().GetString("specialty")

			cfg, err := loadQuiet()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			a := buildApp(ctx, cfg, nil)
			defer a.Close()

			var position *providers.Coordinates
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				position = &providers.Coordinates{Latitude: lat, Longitude: lng}
			}
			text := ""
			if len(args) == 1 {
				text = args[0]
			}

			results := a.search.Search(ctx, position, radius, text, specialty)
			for _, e := range results {
				fmt.Printf("%6.2f km  %-16s %s\n", e.DistanceKm, e.Type, e.Name)
			}
			fmt.Printf("%d establishment(s)\n", len(results))
			return nil
		},
	}
	cmd.Flags().Float64("lat", 0, "Latitude of the search origin (defaults to the configured position)")
	cmd.Flags().Float64("lng", 0, "Longitude of the search origin")
	cmd.Flags().Int("radius", 0, "Search radius in meters (defaults to the configured radius)")
	cmd.Flags().String("specialty", "", "Specialty filter, e.g. pharmacy or cardiologist")
	return cmd
}

func geocodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geocode <address>",
		Short: "Resolve an address to coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadQuiet()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			a := buildApp(ctx, cfg, nil)
			defer a.Close()

			address := strings.Join(args, " ")
			coords, err := a.geocoder.Geocode(ctx, address)
			if err != nil {
				return err
			}
			if coords == nil {
				return fmt.Errorf("no match for %q", address)
			}
			fmt.Printf("%s: %.6f, %.6f\n", address, coords.Latitude, coords.Longitude)
			return nil
		},
	}
}

func doctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctors <query>",
		Short: "Search registered doctors on the booking backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadQuiet()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			a := buildApp(ctx, cfg, nil)
			defer a.Close()

			result := a.doctors.Search(ctx, strings.Join(args, " "), nil)
			fmt.Printf("terms: %s\n", strings.Join(result.Terms, ", "))
			for _, d := range result.Doctors {
				fmt.Printf("%-30s %s\n", d.Name, d.Specialty)
			}
			fmt.Printf("%d doctor(s)\n", len(result.Doctors))
			return nil
		},
	}
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Validate and normalize an availability form read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				input = f
			}

			var in entities.AvailabilityInput
			if err := json.NewDecoder(input).Decode(&in); err != nil {
				return fmt.Errorf("invalid availability JSON: %w", err)
			}

			payload, err := services.NewAvailabilityService(nil).Prepare(in)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}
}

// loadQuiet loads configuration for one-shot commands, logging warnings only
func loadQuiet() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	observability.InitLogger(cfg.OTEL.ServiceName, "production")
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	return cfg, nil
}
