package main

import (
	"fmt"
	"os"

	"github.com/kalekundert/sparekeys/cmd/sparekeys"
	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/style"
)

func main() {
	rootCmd := sparekeys.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// A degraded run still produced an archive; exit 2 so scripts can
		// tell it apart from an aborted one.
		if errors.IsErrorCode(err, errors.ErrDegraded) {
			os.Exit(2)
		}

		fmt.Fprintln(os.Stderr, style.NewTerminalRenderer().RenderError(err))
		os.Exit(1)
	}
}
