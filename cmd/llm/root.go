package main

import (
	"log/slog"

	llmclient "github.com/checkmarble/marble-llm-client"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile     string
	envFiles       []string
	baseUrl        string
	apiKeyVariable string
	verbose        bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:          "llm",
		Short:        "Talk to an OpenAI-compatible LLM API",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to read the API key from, in addition to the environment")
	flags.StringVar(&opts.baseUrl, "base-url", "", "base URL of the API (default from configuration, or OpenAI)")
	flags.StringVar(&opts.apiKeyVariable, "api-key-variable", "", "environment variable holding the API key (default LLM_API_KEY)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newModelsCmd(&opts),
		newChatCmd(&opts),
		newEmbedCmd(&opts),
		newBatchCmd(&opts),
	)

	return root
}

// client builds the client from the global flags. The caller must close it.
func (opts *rootOptions) client(cmd *cobra.Command) (*llmclient.Client, error) {
	options := make([]llmclient.ClientOption, 0, 5)

	if opts.configFile != "" {
		cfg, err := llmclient.LoadConfig(opts.configFile)
		if err != nil {
			return nil, err
		}

		options = append(options, llmclient.WithConfig(cfg))
	}

	if len(opts.envFiles) > 0 {
		dotenv, err := llmclient.DotenvEnvironment(opts.envFiles...)
		if err != nil {
			return nil, err
		}

		options = append(options, llmclient.WithEnvironment(llmclient.ChainEnvironment(llmclient.OsEnvironment(), dotenv)))
	}

	if opts.baseUrl != "" {
		options = append(options, llmclient.WithBaseUrl(opts.baseUrl))
	}
	if opts.apiKeyVariable != "" {
		options = append(options, llmclient.WithApiKeyVariable(opts.apiKeyVariable))
	}

	if opts.verbose {
		options = append(options, llmclient.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	return llmclient.New(options...)
}
