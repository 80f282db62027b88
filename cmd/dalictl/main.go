package main

import (
	"github.com/alecthomas/kong"

	"github.com/go-dali/dalidrv/pkg/cmdutil"
)

const (
	programName = "dalictl"
	programDesc = "DALI bus control"
)

func main() {
	ctx := kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.NamedMapper("accessiblefile", cmdutil.AccessibleFileMapper()),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	err := ctx.Run(&cmdContext{})
	ctx.FatalIfErrorf(err)
}
