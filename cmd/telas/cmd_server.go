package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/telascatalogo/telas/app/routes"
	"github.com/telascatalogo/telas/internal/kernel"
	"github.com/telascatalogo/telas/internal/server"
	"github.com/telascatalogo/telas/pkg/router"
	"github.com/telascatalogo/telas/pkg/ws"
)

// telas serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP (and, with GRPC_PORT, gRPC) server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// telas route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Handlers are never invoked here, so no services are needed.
		k, err := kernel.NewHTTPKernel(kernel.Options{
			Routes: func(r *router.Router) error {
				return routes.RegisterAPI(r, routes.Deps{Hub: ws.NewHub()})
			},
			UploadsDir: ".",
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
