package main

import (
	"context"
	"os"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		cli.Report(os.Stderr, err)
		if apperr.Is(err, apperr.KindConfiguration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
