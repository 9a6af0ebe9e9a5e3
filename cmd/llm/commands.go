package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	llmclient "github.com/checkmarble/marble-llm-client"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models [ID]",
		Short: "List available models, or show one model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := opts.client(cmd)
			if err != nil {
				return err
			}

			defer llm.Close()

			if len(args) == 1 {
				model, err := llm.Models.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", model.Id, model.OwnedBy, model.CreatedAt().Format("2006-01-02"))

				return nil
			}

			models, err := llm.Models.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, model := range models.Data {
				fmt.Fprintln(cmd.OutOrStdout(), model.Id)
			}

			return nil
		},
	}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	var (
		model       string
		system      string
		stream      bool
		maxTokens   int
		temperature float64
	)

	cmd := &cobra.Command{
		Use:   "chat PROMPT...",
		Short: "Send a prompt and print the completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := opts.client(cmd)
			if err != nil {
				return err
			}

			defer llm.Close()

			req := llmclient.NewRequest().WithModel(model)

			if system != "" {
				req = req.WithInstruction(system)
			}
			if cmd.Flags().Changed("max-tokens") {
				req = req.WithMaxTokens(maxTokens)
			}
			if cmd.Flags().Changed("temperature") {
				req = req.WithTemperature(temperature)
			}

			built, err := req.WithText(llmclient.RoleUser, strings.Join(args, " ")).Build()
			if err != nil {
				return err
			}

			if !stream {
				resp, err := llm.Completions.Create(cmd.Context(), built)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), resp.Text())

				return nil
			}

			chunks, err := llm.Completions.Stream(cmd.Context(), built)
			if err != nil {
				return err
			}

			defer chunks.Close()

			for chunks.Next() {
				for _, choice := range chunks.Current().Choices {
					fmt.Fprint(cmd.OutOrStdout(), choice.Delta.Content)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout())

			return chunks.Err()
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "gpt-4o-mini", "model to use")
	cmd.Flags().StringVarP(&system, "system", "s", "", "system prompt")
	cmd.Flags().BoolVar(&stream, "stream", false, "print the completion as it is generated")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "maximum number of tokens to generate")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature")

	return cmd
}

func newEmbedCmd(opts *rootOptions) *cobra.Command {
	var (
		model      string
		dimensions int
	)

	cmd := &cobra.Command{
		Use:   "embed TEXT...",
		Short: "Print the embedding of each text as a JSON array",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := opts.client(cmd)
			if err != nil {
				return err
			}

			defer llm.Close()

			req := llmclient.EmbeddingRequest{Model: model, Input: args}

			if dimensions > 0 {
				req.Dimensions = lo.ToPtr(dimensions)
			}

			resp, err := llm.Embeddings.Create(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())

			for _, vector := range resp.Vectors() {
				if err := enc.Encode(vector); err != nil {
					return errors.Wrap(err, "could not print embedding")
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "text-embedding-3-small", "model to use")
	cmd.Flags().IntVar(&dimensions, "dimensions", 0, "number of dimensions of the embeddings")

	return cmd
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Build a batch input file from prompts read on stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := opts.client(cmd)
			if err != nil {
				return err
			}

			defer llm.Close()

			var items []llmclient.BatchItem

			scanner := bufio.NewScanner(cmd.InOrStdin())

			for scanner.Scan() {
				prompt := strings.TrimSpace(scanner.Text())
				if prompt == "" {
					continue
				}

				items = append(items, llmclient.ChatCompletionBatchItem(fmt.Sprintf("request-%d", len(items)+1), llmclient.ChatCompletionRequest{
					Model:    model,
					Messages: []llmclient.ChatMessage{llmclient.UserMessage(prompt)},
				}))
			}

			if err := scanner.Err(); err != nil {
				return errors.Wrap(err, "could not read prompts")
			}

			return llm.WriteBatchInput(cmd.OutOrStdout(), items...)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "gpt-4o-mini", "model to use")

	return cmd
}
