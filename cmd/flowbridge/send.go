package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/flowbridge"
	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/service/route"
)

type sendOptions struct {
	config      string
	definitions []string
	properties  map[string]string
	headers     map[string]string
	body        string
}

func newSendCmd() *cobra.Command {
	options := &sendOptions{}
	cmd := &cobra.Command{
		Use:   "send URI",
		Short: "Send an exchange to an endpoint",
		Long: `Send loads the configuration and definitions, sends one exchange to URI and
prints the resulting exchange. A flow:<process> URI starts a process and a
flow:<process>:<activity> URI signals the execution waiting in activity.`,
		Example: `  flowbridge send -d order.yaml -p customer=piggy "flow:order?copyVariablesFromProperties=true"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd.Context(), options, args[0], cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&options.config, "config", "c", "", "configuration URL (yaml or json)")
	flags.StringSliceVarP(&options.definitions, "definition", "d", nil, "definition URL to deploy, repeatable")
	flags.StringToStringVarP(&options.properties, "property", "p", nil, "exchange property name=value")
	flags.StringToStringVarP(&options.headers, "header", "H", nil, "message header name=value")
	flags.StringVarP(&options.body, "body", "b", "", "message body")
	return cmd
}

func send(ctx context.Context, options *sendOptions, URI string, out io.Writer) error {
	config := flowbridge.DefaultConfig()
	if options.config != "" {
		var err error
		if config, err = flowbridge.LoadConfig(ctx, options.config); err != nil {
			return err
		}
	}
	logger := logging.NewWithWriter(os.Stderr, config.Log.Service, config.Log.Version, logging.ParseLevel(config.Log.Level))
	srv, err := flowbridge.New(flowbridge.WithConfig(config), flowbridge.WithLogger(logger))
	if err != nil {
		return err
	}
	runtime := srv.Runtime()
	for _, URL := range options.definitions {
		if _, err = runtime.LoadDefinition(ctx, URL); err != nil {
			return err
		}
	}
	if err = runtime.Start(ctx); err != nil {
		return err
	}
	defer runtime.Shutdown(ctx)

	exchange := route.NewExchange()
	for name, value := range options.properties {
		exchange.SetProperty(name, value)
	}
	for name, value := range options.headers {
		exchange.In.SetHeader(name, value)
	}
	if options.body != "" {
		exchange.In.Body = options.body
	}
	exchange, err = srv.Routes().ProducerTemplate().Send(ctx, URI, exchange)
	if err != nil {
		return fmt.Errorf("failed to send to %s: %w", URI, err)
	}
	data, err := json.MarshalIndent(exchange, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
