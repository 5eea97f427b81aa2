// Command field-assembler enriches JSON documents with data looked up from
// the sources of an engine configuration, following declarative rules.
//
//	field-assembler enrich --rules rules.yaml --config engine.toml --type order orders.json
//	field-assembler plan --rules rules.yaml --type order
//	field-assembler validate --rules rules.yaml --config engine.toml
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
