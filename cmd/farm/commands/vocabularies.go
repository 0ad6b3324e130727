package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewVocabulariesCommand creates the vocabularies command group
func NewVocabulariesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vocabularies",
		Aliases: []string{"vocabulary", "vocabs"},
		Short:   "Manage taxonomy vocabularies",
		Long:    "List taxonomy vocabularies configured on the farmOS server",
	}

	cmd.AddCommand(newVocabulariesListCommand())
	cmd.AddCommand(newVocabulariesGetCommand())

	return cmd
}

func newVocabulariesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vocabularies",
		Long:  "List all taxonomy vocabularies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			vocabularies, err := client.Vocabularies().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list vocabularies: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(vocabularies)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(vocabularies)
			default:
				if len(vocabularies) == 0 {
					fmt.Println("No vocabularies found")
					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("VID", "Name", "Machine Name")

				for _, vocabulary := range vocabularies {
					_ = table.Append(vocabulary.VID.String(), vocabulary.Name, vocabulary.MachineName)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func newVocabulariesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get MACHINE_NAME",
		Short: "Get vocabulary details",
		Long:  "Display detailed information about a vocabulary by machine name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			vocabulary, err := client.Vocabularies().GetByMachineName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get vocabulary: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(vocabulary)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(vocabulary)
			default:
				fmt.Printf("Vocabulary: %s\n", vocabulary.Name)
				fmt.Printf("  VID:          %s\n", vocabulary.VID)
				fmt.Printf("  Machine Name: %s\n", vocabulary.MachineName)
				if vocabulary.Description != "" {
					fmt.Printf("  Description:  %s\n", vocabulary.Description)
				}
			}

			return nil
		},
	}
}
