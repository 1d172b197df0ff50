// pkpass builds, signs and verifies wallet pass archives.
package main

import "github.com/information-sharing-networks/pkpass/internal/cli"

func main() {
	cli.Execute()
}
