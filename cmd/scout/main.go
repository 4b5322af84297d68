// Command scout harvests arXiv paper metadata and extracts figures from
// paper sources. See `scout --help` for the available subcommands.
package main

import "github.com/hazyhaar/scout/cmd/scout/cmd"

func main() {
	cmd.Execute()
}
