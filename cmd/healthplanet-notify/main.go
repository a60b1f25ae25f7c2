package main

import (
	"healthplanet-notify/cmd/healthplanet-notify/commands"
	"healthplanet-notify/pkg/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
