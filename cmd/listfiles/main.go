// Command listfiles expands //listfiles: directives into generated Go arrays.
// It is meant to run from go generate:
//
//	//go:generate go run github.com/cpcf/listfiles/cmd/listfiles
//	//listfiles:var Files = listfiles("./files/*.json")
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cpcf/listfiles/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
