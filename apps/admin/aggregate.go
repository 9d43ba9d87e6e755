package main

import (
	"context"
	"fmt"

	"github.com/trezcool/jarida/core/analytics"
	logsvc "github.com/trezcool/jarida/services/logger"
)

// aggregate runs one analytics aggregation pass and prints the snapshot id.
func (cli *commandLine) aggregate() error {
	runner := analytics.NewRunner(
		cli.usrRepo,
		cli.entryRepo,
		cli.snapRepo,
		logsvc.NewRollbarLogger(logger, cli.conf),
		cli.conf.Analytics.FetchConcurrency,
	)
	snap, err := runner.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("snapshot %s written: %d entries, %d words\n", snap.ID, snap.TotalEntries, snap.TotalWords)
	return nil
}
