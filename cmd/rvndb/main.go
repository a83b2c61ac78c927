// Command rvndb inspects and stamps the metadata header of resource
// databases.
package main

import "github.com/tetrane/rvnsqlite/internal/cli"

func main() {
	cli.Execute()
}
