package main

import (
	"context"

	"loginbot/cmd/loginbot/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
