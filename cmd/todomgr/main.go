package main

import (
	"fmt"
	"os"

	"github.com/go-while/go-todoleaf/internal/cli"
	"github.com/go-while/go-todoleaf/internal/config"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	if err := cli.RootCmd(appVersion).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
