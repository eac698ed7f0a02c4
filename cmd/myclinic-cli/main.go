package main

import (
	"myclinic-backend/cmd/myclinic-cli/commands"
	"myclinic-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
