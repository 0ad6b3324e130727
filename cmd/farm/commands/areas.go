package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/farmhand-io/farmos-client/pkg/farmos"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewAreasCommand creates the areas command group
func NewAreasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "areas",
		Aliases: []string{"area"},
		Short:   "Manage farm areas",
		Long:    "List and manage farm areas: fields, beds, buildings, water sources, and more",
	}

	cmd.AddCommand(newAreasListCommand())
	cmd.AddCommand(newAreasGetCommand())
	cmd.AddCommand(newAreasCreateCommand())
	cmd.AddCommand(newAreasDeleteCommand())

	return cmd
}

func newAreasListCommand() *cobra.Command {
	var (
		allPages bool
		page     int
		areaType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List areas",
		Long:  "List farm areas, optionally filtered by area type",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			params := farmos.NewQueryParams()
			params.WithParam("area_type", areaType)

			var areas []farmos.Area
			if allPages {
				areas, err = client.Areas().ListAll(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list areas: %w", err)
				}
			} else {
				if cmd.Flags().Changed("page") {
					params.WithPage(page)
				}

				pageResponse, err := client.Areas().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list areas: %w", err)
				}
				areas = pageResponse.List
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(areas)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(areas)
			default:
				if len(areas) == 0 {
					fmt.Println("No areas found")
					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Area Type")

				for _, area := range areas {
					_ = table.Append(area.TID.String(), area.Name, area.AreaType)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&page, "page", 0, "page to fetch (zero-based)")
	cmd.Flags().StringVar(&areaType, "type", "", "filter by area type (field, bed, building, ...)")

	return cmd
}

func newAreasGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get AREA_ID",
		Short: "Get area details",
		Long:  "Display detailed information about a specific area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			area, err := client.Areas().Get(ctx, tid)
			if err != nil {
				return fmt.Errorf("failed to get area: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(area)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(area)
			default:
				fmt.Printf("Area: %s\n", area.Name)
				fmt.Printf("  ID:        %s\n", area.TID)
				fmt.Printf("  Area Type: %s\n", area.AreaType)
				if area.Description != "" {
					fmt.Printf("  Description: %s\n", area.Description)
				}
				for _, geo := range area.Geometry {
					fmt.Printf("  Geometry:  %s\n", geo.Geom)
				}
			}

			return nil
		},
	}
}

func newAreasCreateCommand() *cobra.Command {
	var (
		name     string
		areaType string
		geometry string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an area",
		Long:  "Create a new farm area in the farm_areas vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrNameRequired
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			area := &farmos.Area{
				Term:     farmos.Term{Name: name},
				AreaType: areaType,
			}

			if geometry != "" {
				area.Geometry = []farmos.GeoField{{Geom: geometry}}
			}

			result, err := client.Areas().Create(ctx, area)
			if err != nil {
				return fmt.Errorf("failed to create area: %w", err)
			}

			fmt.Printf("Successfully created area '%s' with id %s\n", name, result.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "area name (required)")
	cmd.Flags().StringVar(&areaType, "type", "", "area type (field, bed, building, ...)")
	cmd.Flags().StringVar(&geometry, "geometry", "", "WKT geometry string")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAreasDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete AREA_ID",
		Short: "Delete an area",
		Long:  "Delete a farm area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("Really delete area %s? (y/N): ", tid)
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Cancelled")
					return nil
				}
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			if err := client.Areas().Delete(ctx, tid); err != nil {
				return fmt.Errorf("failed to delete area: %w", err)
			}

			fmt.Printf("Successfully deleted area %s\n", tid)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}
