// UTube — fast YouTube search for launcher-style workflows.
//
// Fetches the results page, extracts video records from the embedded data
// block and resolves cached, shape-masked thumbnails, always returning a
// usable result list even when the upstream page breaks.
package main

import "github.com/elx4vier/UTube/cmd"

func main() {
	cmd.Execute()
}
