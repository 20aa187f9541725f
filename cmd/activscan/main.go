// Command activscan scores activation CSV files from the command line.
package main

import "github.com/okian/activscan/internal/cli"

func main() {
	cli.Execute()
}
