package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dd0wney/cluso-netanalytics/pkg/analytics"
	"github.com/dd0wney/cluso-netanalytics/pkg/config"
	"github.com/dd0wney/cluso-netanalytics/pkg/contactstore"
	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
	"github.com/dd0wney/cluso-netanalytics/pkg/metrics"
	"github.com/dd0wney/cluso-netanalytics/pkg/report"
	"github.com/dd0wney/cluso-netanalytics/pkg/validation"
)

// Version is set at build time:
//
//	go build -ldflags "-X main.Version=1.2.0" ./cmd/netanalytics
var Version = "dev"

var errNoInput = errors.New("no network source: pass --input or configure --dsn and --owner")

// app carries state shared by all subcommands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	input    string
	output   string
	top      int
	cfg      *config.Config
	logger   *logging.ZapLogger
	registry *metrics.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "netanalytics",
		Short:         "Influence and community analytics for contact networks.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate("netanalytics {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./netanalytics.yaml)")
	flags.StringVarP(&a.input, "input", "i", "", "graph document to analyze (.json, .yaml or - for JSON on stdin)")
	flags.StringVarP(&a.output, "output", "o", string(report.FormatTable), "output format: table or json")
	flags.String("dsn", "", "PostgreSQL contact store DSN")
	flags.String("owner", "", "contact store owner whose network is analyzed")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Int("workers", 0, "goroutines used for betweenness centrality")

	for key, name := range map[string]string{
		"database.dsn":      "dsn",
		"database.owner_id": "owner",
		"log.level":         "log-level",
		"analytics.workers": "workers",
	} {
		// BindPFlag only fails on a nil flag.
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		newInfluenceCmd(a),
		newCommunitiesCmd(a),
		newAnalyzeCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if _, err := report.ParseFormat(a.output); err != nil {
		return err
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	opts := cfg.Log.LoggerOptions()
	opts.Output = cmd.ErrOrStderr()
	a.logger = logging.New(opts)
	a.registry = metrics.NewRegistry()

	a.logger.Debug("configuration loaded",
		logging.String("config_file", a.v.ConfigFileUsed()),
		logging.String("version", Version))
	return nil
}

func (a *app) engine() (*analytics.Engine, error) {
	return analytics.NewEngine(a.cfg.Analytics,
		analytics.WithLogger(a.logger),
		analytics.WithMetrics(a.registry),
		analytics.WithCacheSize(a.cfg.CacheSize),
	)
}

// loadNetwork reads the network from --input when given, otherwise from the
// contact store.
func (a *app) loadNetwork(ctx context.Context, cmd *cobra.Command) (*graph.NetworkGraph, graph.Contacts, error) {
	if a.input != "" {
		return a.loadDocument(cmd)
	}
	if a.cfg.Database.DSN == "" {
		return nil, graph.Contacts{}, errNoInput
	}

	store, err := contactstore.Open(ctx, a.cfg.Database.DSN,
		contactstore.WithLogger(a.logger),
		contactstore.WithMetrics(a.registry))
	if err != nil {
		return nil, graph.Contacts{}, err
	}
	defer store.Close()
	return store.LoadNetwork(ctx, a.cfg.Database.OwnerID)
}

func (a *app) loadDocument(cmd *cobra.Command) (*graph.NetworkGraph, graph.Contacts, error) {
	var (
		doc *graph.Document
		err error
	)
	if a.input == "-" {
		doc, err = graph.DecodeDocument(cmd.InOrStdin(), graph.FormatJSON)
	} else {
		doc, err = graph.LoadDocument(a.input)
	}
	if err != nil {
		return nil, graph.Contacts{}, err
	}
	if err := validation.ValidateDocument(doc); err != nil {
		return nil, graph.Contacts{}, fmt.Errorf("invalid document: %w", err)
	}

	g, err := doc.Graph()
	if err != nil {
		return nil, graph.Contacts{}, err
	}
	return g, doc.ContactSet(g), nil
}

// render writes v as JSON, or calls table for table output.
func (a *app) render(cmd *cobra.Command, v any, table func(*report.Writer) error) error {
	format, _ := report.ParseFormat(a.output)
	if format == report.FormatJSON {
		return report.WriteJSON(cmd.OutOrStdout(), v)
	}
	return table(report.NewWriter(cmd.OutOrStdout()))
}
