// Command organza is the task and plan organizer CLI.
package main

import "github.com/viniciusgf/organza/internal/cli"

func main() {
	cli.Execute()
}
