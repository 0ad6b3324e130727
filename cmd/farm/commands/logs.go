package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/farmhand-io/farmos-client/pkg/farmos"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewLogsCommand creates the logs command group
func NewLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logs",
		Aliases: []string{"log"},
		Short:   "Manage farm logs",
		Long:    "List and manage farm logs: activities, observations, harvests, and more",
	}

	cmd.AddCommand(newLogsListCommand())
	cmd.AddCommand(newLogsGetCommand())
	cmd.AddCommand(newLogsCreateCommand())
	cmd.AddCommand(newLogsDoneCommand())
	cmd.AddCommand(newLogsDeleteCommand())

	return cmd
}

// logListParams builds the list query from the command flags. The log
// type filter is an array parameter, sent as type[]=value.
func logListParams(logTypes []string, done *bool) *farmos.QueryParams {
	params := farmos.NewQueryParams()
	params.WithBracketParam("type", logTypes...)

	if done != nil {
		params.WithFlag("done", *done)
	}

	return params
}

func newLogsListCommand() *cobra.Command {
	var (
		allPages bool
		page     int
		logTypes []string
		done     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logs",
		Long:  "List farm logs, optionally filtered by type and completion state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			var doneFilter *bool
			if cmd.Flags().Changed("done") {
				doneFilter = &done
			}

			params := logListParams(logTypes, doneFilter)

			var logs []farmos.Log
			if allPages {
				logs, err = client.Logs().ListAll(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list logs: %w", err)
				}
			} else {
				if cmd.Flags().Changed("page") {
					params.WithPage(page)
				}

				pageResponse, err := client.Logs().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list logs: %w", err)
				}
				logs = pageResponse.List
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(logs)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(logs)
			default:
				if len(logs) == 0 {
					fmt.Println("No logs found")
					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Type", "Done", "Timestamp")

				for _, log := range logs {
					_ = table.Append(log.ID.String(), log.Name, log.Type,
						yesNo(log.Done), formatTimestamp(log.Timestamp))
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
	cmd.Flags().StringSliceVar(&logTypes, "type", nil, "filter by log type, repeatable (activity, observation, harvest, ...)")
	cmd.Flags().BoolVar(&done, "done", false, "filter by completion state")

	return cmd
}

func newLogsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get LOG_ID",
		Short: "Get log details",
		Long:  "Display detailed information about a specific log",
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

			log, err := client.Logs().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get log: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(log)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(log)
			default:
				fmt.Printf("Log: %s\n", log.Name)
				fmt.Printf("  ID:        %s\n", log.ID)
				fmt.Printf("  Type:      %s\n", log.Type)
				fmt.Printf("  Done:      %s\n", yesNo(log.Done))
				if log.Timestamp != 0 {
					fmt.Printf("  Timestamp: %s\n", formatTimestamp(log.Timestamp))
				}
				if log.Notes != nil && log.Notes.Value != "" {
					fmt.Printf("  Notes:     %s\n", log.Notes.Value)
				}
				for _, ref := range log.Assets {
					fmt.Printf("  Asset:     %s\n", ref.ID)
				}
				for _, ref := range log.Areas {
					fmt.Printf("  Area:      %s\n", ref.ID)
				}
			}

			return nil
		},
	}
}

func newLogsCreateCommand() *cobra.Command {
	var (
		name      string
		logType   string
		notes     string
		done      bool
		timestamp int64
		assetIDs  []int64
		areaIDs   []int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a log",
		Long:  "Create a new farm log, optionally referencing assets and areas",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrNameRequired
			}
			if logType == "" {
				return ErrTypeRequired
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			log := &farmos.Log{
				Name:      name,
				Type:      logType,
				Done:      farmos.NewFlag(done),
				Timestamp: timestamp,
			}

			if log.Timestamp == 0 {
				log.Timestamp = time.Now().Unix()
			}

			if notes != "" {
				log.Notes = &farmos.TextField{Value: notes}
			}

			for _, assetID := range assetIDs {
				log.Assets = append(log.Assets, farmos.ResourceRef{
					ID:       farmos.ID(assetID),
					Resource: "farm_asset",
				})
			}

			for _, areaID := range areaIDs {
				log.Areas = append(log.Areas, farmos.ResourceRef{
					ID:       farmos.ID(areaID),
					Resource: "taxonomy_term",
				})
			}

			result, err := client.Logs().Create(ctx, log)
			if err != nil {
				return fmt.Errorf("failed to create log: %w", err)
			}

			fmt.Printf("Successfully created log '%s' with id %s\n", name, result.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "log name (required)")
	cmd.Flags().StringVar(&logType, "type", "", "log type (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "log notes")
	cmd.Flags().BoolVar(&done, "done", false, "mark the log as done")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "Unix timestamp (defaults to now)")
	cmd.Flags().Int64SliceVar(&assetIDs, "asset", nil, "referenced asset id (repeatable)")
	cmd.Flags().Int64SliceVar(&areaIDs, "area", nil, "referenced area id (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newLogsDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done LOG_ID",
		Short: "Mark a log as done",
		Long:  "Mark an existing log as completed",
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

			log := &farmos.Log{Done: farmos.NewFlag(true)}

			result, err := client.Logs().Update(ctx, id, log)
			if err != nil {
				return fmt.Errorf("failed to update log: %w", err)
			}

			fmt.Printf("Marked log %s as done\n", result.ID)

			return nil
		},
	}
}

func newLogsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete LOG_ID",
		Short: "Delete a log",
		Long:  "Delete a farm log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("Really delete log %s? (y/N): ", id)
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

			if err := client.Logs().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete log: %w", err)
			}

			fmt.Printf("Successfully deleted log %s\n", id)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}
