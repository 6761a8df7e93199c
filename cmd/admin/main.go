package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophaccounts/internal/admin"
)

func main() {
	if err := admin.NewRootCommand(os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
