package main

import (
	"os"

	"github.com/lojacrm/backend/cmd/crmctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
