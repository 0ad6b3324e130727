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

// NewTermsCommand creates the terms command group
func NewTermsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "terms",
		Aliases: []string{"term"},
		Short:   "Manage taxonomy terms",
		Long:    "List and manage taxonomy terms: crop families, animal breeds, units, and more",
	}

	cmd.AddCommand(newTermsListCommand())
	cmd.AddCommand(newTermsGetCommand())
	cmd.AddCommand(newTermsCreateCommand())

	return cmd
}

func newTermsListCommand() *cobra.Command {
	var (
		allPages   bool
		page       int
		vocabulary string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List terms",
		Long:  "List taxonomy terms, optionally scoped to a vocabulary machine name",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			params := farmos.NewQueryParams()

			// A vocabulary filter needs the numeric vid, so resolve the
			// machine name first.
			if vocabulary != "" {
				vocab, err := client.Vocabularies().GetByMachineName(ctx, vocabulary)
				if err != nil {
					return fmt.Errorf("failed to resolve vocabulary '%s': %w", vocabulary, err)
				}
				params.WithID("vocabulary", vocab.VID)
			}

			var terms []farmos.Term
			if allPages {
				terms, err = client.Terms().ListAll(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list terms: %w", err)
				}
			} else {
				if cmd.Flags().Changed("page") {
					params.WithPage(page)
				}

				pageResponse, err := client.Terms().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list terms: %w", err)
				}
				terms = pageResponse.List
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(terms)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(terms)
			default:
				if len(terms) == 0 {
					fmt.Println("No terms found")
					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Vocabulary")

				for _, term := range terms {
					vid := ""
					if term.Vocabulary != nil {
						vid = term.Vocabulary.ID.String()
					}
					_ = table.Append(term.TID.String(), term.Name, vid)
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
	cmd.Flags().StringVar(&vocabulary, "vocabulary", "", "filter by vocabulary machine name")

	return cmd
}

func newTermsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TERM_ID",
		Short: "Get term details",
		Long:  "Display detailed information about a specific taxonomy term",
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

			term, err := client.Terms().Get(ctx, tid)
			if err != nil {
				return fmt.Errorf("failed to get term: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(term)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)
				return encoder.Encode(term)
			default:
				fmt.Printf("Term: %s\n", term.Name)
				fmt.Printf("  ID: %s\n", term.TID)
				if term.Vocabulary != nil {
					fmt.Printf("  Vocabulary: %s\n", term.Vocabulary.ID)
				}
				if term.Description != "" {
					fmt.Printf("  Description: %s\n", term.Description)
				}
			}

			return nil
		},
	}
}

func newTermsCreateCommand() *cobra.Command {
	var (
		name       string
		vocabulary string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a term",
		Long:  "Create a new taxonomy term in a vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrNameRequired
			}
			if vocabulary == "" {
				return ErrVocabularyRequired
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			vocab, err := client.Vocabularies().GetByMachineName(ctx, vocabulary)
			if err != nil {
				return fmt.Errorf("failed to resolve vocabulary '%s': %w", vocabulary, err)
			}

			term := &farmos.Term{
				Name: name,
				Vocabulary: &farmos.ResourceRef{
					ID:       vocab.VID,
					Resource: "taxonomy_vocabulary",
				},
			}

			result, err := client.Terms().Create(ctx, term)
			if err != nil {
				return fmt.Errorf("failed to create term: %w", err)
			}

			fmt.Printf("Successfully created term '%s' with id %s\n", name, result.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "term name (required)")
	cmd.Flags().StringVar(&vocabulary, "vocabulary", "", "vocabulary machine name (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("vocabulary")

	return cmd
}
