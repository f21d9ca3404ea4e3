package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rafabd1/LintHound/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if isatty.IsTerminal(os.Stderr.Fd()) {
		printBanner()
	}

	code := cmd.Execute(ctx)
	stop()
	os.Exit(code)
}

// printBanner prints the application banner
func printBanner() {
	banner := `
    __    _       __  __  __                      __
   / /   (_)___  / /_/ / / /___  __  ______  ____/ /
  / /   / / __ \/ __/ /_/ / __ \/ / / / __ \/ __  /
 / /___/ / / / / /_/ __  / /_/ / /_/ / / / / /_/ /
/_____/_/_/ /_/\__/_/ /_/\____/\__,_/_/ /_/\__,_/   v%s

`
	fmt.Fprintf(os.Stderr, banner, cmd.Version)
}
