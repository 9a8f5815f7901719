// Command firmware-releaser synchronizes firmware builds with published
// releases: it detects changed build definitions and upstream version bumps,
// rebuilds what changed and uploads the artifacts as dated releases.
package main

import "github.com/oshokin/firmware-releaser/cmd/firmware-releaser/cmd"

func main() {
	cmd.Execute()
}
