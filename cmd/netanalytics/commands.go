package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-netanalytics/pkg/algorithms"
	"github.com/dd0wney/cluso-netanalytics/pkg/api"
	"github.com/dd0wney/cluso-netanalytics/pkg/contactstore"
	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
	"github.com/dd0wney/cluso-netanalytics/pkg/report"
)

func newInfluenceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "influence",
		Short: "Rank nodes by weighted centrality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			g, _, err := a.loadNetwork(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			ranked, err := engine.RankInfluence(cmd.Context(), g)
			if err != nil {
				return err
			}
			if a.top > 0 {
				ranked = algorithms.TopInfluencers(ranked, a.top)
			}
			return a.render(cmd, ranked, func(w *report.Writer) error {
				return w.Influence(ranked)
			})
		},
	}
	cmd.Flags().IntVarP(&a.top, "top", "n", 0, "show only the n most influential nodes (0 for all)")
	return cmd
}

func newCommunitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "communities",
		Short: "Detect attribute communities and structural clusters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			g, contacts, err := a.loadNetwork(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			result, err := engine.Communities(cmd.Context(), g, contacts)
			if err != nil {
				return err
			}
			return a.render(cmd, result, func(w *report.Writer) error {
				return w.Communities(result)
			})
		},
	}
}

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run influence and community analysis together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			g, contacts, err := a.loadNetwork(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			r, err := engine.Analyze(cmd.Context(), g, contacts)
			if err != nil {
				return err
			}
			if a.top > 0 {
				r.Influence = algorithms.TopInfluencers(r.Influence, a.top)
			}
			return a.render(cmd, r, func(w *report.Writer) error {
				return w.Report(r)
			})
		},
	}
	cmd.Flags().IntVarP(&a.top, "top", "n", 0, "show only the n most influential nodes (0 for all)")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			opts := []api.Option{
				api.WithLogger(a.logger),
				api.WithMetrics(a.registry),
				api.WithVersion(Version),
			}
			if a.cfg.Database.DSN != "" {
				store, err := contactstore.Open(cmd.Context(), a.cfg.Database.DSN,
					contactstore.WithLogger(a.logger),
					contactstore.WithMetrics(a.registry))
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, api.WithNetworkLoader(store))
			}

			srv, err := api.NewServer(a.cfg.Server, engine, opts...)
			if err != nil {
				return err
			}
			a.logger.Info("starting netanalytics API",
				logging.String("addr", a.cfg.Server.Addr),
				logging.String("version", Version))
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "netanalytics %s\n", Version)
			return err
		},
	}
}
