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

// NewAssetsCommand creates the assets command group
func NewAssetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assets",
		Aliases: []string{"asset"},
		Short:   "Manage farm assets",
		Long:    "List and manage farm assets: animals, plantings, equipment, and more",
	}

	cmd.AddCommand(newAssetsListCommand())
	cmd.AddCommand(newAssetsGetCommand())
	cmd.AddCommand(newAssetsCreateCommand())
	cmd.AddCommand(newAssetsUpdateCommand())
	cmd.AddCommand(newAssetsDeleteCommand())

	return cmd
}

func newAssetsListCommand() *cobra.Command {
	var (
		allPages  bool
		page      int
		assetType string
		archived  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		Long:  "List farm assets, optionally filtered by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			params := farmos.NewQueryParams()
			params.WithParam("type", assetType)

			if cmd.Flags().Changed("archived") {
				params.WithFlag("archived", archived)
			}

			var assets []farmos.Asset
			if allPages {
				assets, err = client.Assets().ListAll(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list assets: %w", err)
				}
			} else {
				if cmd.Flags().Changed("page") {
					params.WithPage(page)
				}

				pageResponse, err := client.Assets().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list assets: %w", err)
				}
				assets = pageResponse.List
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(assets)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(assets)
			default:
				if len(assets) == 0 {
					fmt.Println("No assets found")
					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Type", "Archived", "Changed")

				for _, asset := range assets {
					_ = table.Append(asset.ID.String(), asset.Name, asset.Type,
						yesNo(asset.Archived), formatTimestamp(asset.Changed))
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
	cmd.Flags().StringVar(&assetType, "type", "", "filter by asset type (animal, planting, equipment, ...)")
	cmd.Flags().BoolVar(&archived, "archived", false, "filter by archived state")

	return cmd
}

func newAssetsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ASSET_ID",
		Short: "Get asset details",
		Long:  "Display detailed information about a specific asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			asset, err := client.Assets().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get asset: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(asset)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(asset)
			default:
				fmt.Printf("Asset: %s\n", asset.Name)
				fmt.Printf("  ID:       %s\n", asset.ID)
				fmt.Printf("  Type:     %s\n", asset.Type)
				fmt.Printf("  Archived: %s\n", yesNo(asset.Archived))
				if asset.Description != nil && asset.Description.Value != "" {
					fmt.Printf("  Description: %s\n", asset.Description.Value)
				}
				if asset.Created != 0 {
					fmt.Printf("  Created:  %s\n", formatTimestamp(asset.Created))
				}
				if asset.Changed != 0 {
					fmt.Printf("  Changed:  %s\n", formatTimestamp(asset.Changed))
				}
			}

			return nil
		},
	}
}

func newAssetsCreateCommand() *cobra.Command {
	var (
		name        string
		assetType   string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an asset",
		Long:  "Create a new farm asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrNameRequired
			}
			if assetType == "" {
				return ErrTypeRequired
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			asset := &farmos.Asset{
				Name: name,
				Type: assetType,
			}

			if description != "" {
				asset.Description = &farmos.TextField{Value: description}
			}

			result, err := client.Assets().Create(ctx, asset)
			if err != nil {
				return fmt.Errorf("failed to create asset: %w", err)
			}

			fmt.Printf("Successfully created asset '%s' with id %s\n", name, result.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "asset name (required)")
	cmd.Flags().StringVar(&assetType, "type", "", "asset type (required)")
	cmd.Flags().StringVar(&description, "description", "", "asset description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newAssetsUpdateCommand() *cobra.Command {
	var (
		newName  string
		archived bool
	)

	cmd := &cobra.Command{
		Use:   "update ASSET_ID",
		Short: "Update an asset",
		Long:  "Update an existing farm asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			asset := &farmos.Asset{}

			if newName != "" {
				asset.Name = newName
			}

			if cmd.Flags().Changed("archived") {
				asset.Archived = farmos.NewFlag(archived)
			}

			result, err := client.Assets().Update(ctx, id, asset)
			if err != nil {
				return fmt.Errorf("failed to update asset: %w", err)
			}

			fmt.Printf("Successfully updated asset %s\n", result.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "new asset name")
	cmd.Flags().BoolVar(&archived, "archived", false, "archive or unarchive the asset")

	return cmd
}

func newAssetsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ASSET_ID",
		Short: "Delete an asset",
		Long:  "Delete a farm asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("Really delete asset %s? (y/N): ", id)
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

			if err := client.Assets().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete asset: %w", err)
			}

			fmt.Printf("Successfully deleted asset %s\n", id)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}
