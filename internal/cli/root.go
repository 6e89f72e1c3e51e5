// Package cli implements the docreq command: one request through an eshttp transport, the
// response rendered as a document.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pior/eshttp"
	"github.com/pior/eshttp/document"
	"github.com/pior/eshttp/wire"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

type options struct {
	configPath string
	method     string
	data       string
	keepAlive  bool
	color      string
	extract    string
	schema     string
	repeat     int
	rate       float64
	tag        bool
	timeout    time.Duration
}

// NewRootCommand returns the docreq command.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "docreq [TARGET] PATH",
		Short:   "Send a request to a JSON document server and print the response document",
		Version: version,
		Long: `docreq sends one request over a raw HTTP/1.1 transport and prints the response body
as an indented document carrying the HTTP status in its "status" member.

TARGET is [http://]host[:port][/base-path]. It may come from the config file instead.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&opts.method, "method", "X", eshttp.MethodGet, "HTTP method")
	flags.StringVarP(&opts.data, "data", "d", "", "JSON request body")
	flags.BoolVarP(&opts.keepAlive, "keep-alive", "k", false, "Reuse the connection across requests")
	flags.StringVar(&opts.color, "color", ColorAuto, "Colorize output: auto, always or never")
	flags.StringVarP(&opts.extract, "extract", "e", "", "Print only the value at this path (e.g. hits.total.value)")
	flags.StringVar(&opts.schema, "schema", "", "JSON schema file the response document must match")
	flags.IntVarP(&opts.repeat, "repeat", "n", 1, "Send the request n times and print a latency summary")
	flags.Float64Var(&opts.rate, "rate", 0, "Maximum requests per second (0 for unlimited)")
	flags.BoolVar(&opts.tag, "tag", false, "Add an X-Opaque-Id header to every request")
	flags.DurationVarP(&opts.timeout, "timeout", "t", 60*time.Second, "Timeout of each request")

	return cmd
}

// Execute runs the docreq command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	fileCfg := &FileConfig{}
	if opts.configPath != "" {
		var err error
		if fileCfg, err = LoadConfig(opts.configPath); err != nil {
			return err
		}
	}

	cfg := fileCfg.TransportConfig()
	flags := cmd.Flags()
	if flags.Changed("keep-alive") {
		cfg.KeepAlive = opts.keepAlive
	}
	if flags.Changed("rate") {
		cfg.RequestsPerSecond = opts.rate
	}
	if flags.Changed("tag") {
		cfg.TagRequests = opts.tag
	}

	target, path := fileCfg.Target, args[0]
	if len(args) == 2 {
		target, path = args[0], args[1]
	}
	if target == "" {
		return errors.New("no target: pass TARGET or set target in the config file")
	}

	if opts.repeat < 1 {
		return fmt.Errorf("invalid repeat count %d", opts.repeat)
	}

	out := cmd.OutOrStdout()
	colored, err := useColor(opts.color, out)
	if err != nil {
		return err
	}

	var schema *Schema
	if opts.schema != "" {
		if schema, err = LoadSchema(opts.schema); err != nil {
			return err
		}
	}

	req := eshttp.Request{Method: strings.ToUpper(opts.method), Path: path}
	if opts.data != "" {
		if _, err := document.Parse([]byte(opts.data)); err != nil {
			return fmt.Errorf("invalid request body: %w", err)
		}
		req.Body = []byte(opts.data)
		req.ContentType = wire.ContentTypeJSON
	}

	tr, err := eshttp.New(target, cfg)
	if err != nil {
		return err
	}
	defer tr.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.repeat == 1 {
		resp, err := send(ctx, tr, req, opts.timeout)
		if err != nil {
			return err
		}
		return render(out, resp, document.NewPrinter(colored), opts.extract, schema)
	}

	lat := newLatencies()
	var lastErr error
	for range opts.repeat {
		start := time.Now()
		_, err := send(ctx, tr, req, opts.timeout)
		lat.record(time.Since(start), err)
		if err != nil {
			lastErr = err
		}
	}

	summary := lat.summary()
	summary.print(out)
	if lastErr != nil {
		return fmt.Errorf("%d of %d requests failed, last error: %w", summary.Errors, summary.Requests, lastErr)
	}
	return nil
}

func send(ctx context.Context, tr *eshttp.Transport, req eshttp.Request, timeout time.Duration) (*eshttp.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return tr.Do(ctx, req)
}

func render(w io.Writer, resp *eshttp.Response, printer *document.Printer, extract string, schema *Schema) error {
	if schema != nil {
		doc, err := resp.Document()
		if err != nil {
			return err
		}
		if err := schema.Validate(doc); err != nil {
			return err
		}
	}

	if extract != "" {
		r := resp.Lookup(extract)
		if !r.Exists() {
			return fmt.Errorf("path %q not found in response", extract)
		}
		fmt.Fprintln(w, r.String())
		return nil
	}

	doc, err := resp.Document()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, printer.Sprint(document.ObjectValue(doc)))
	return nil
}
