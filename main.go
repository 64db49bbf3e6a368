// Command goldstat computes statistics over gold price series and
// investor-attitude survey responses.
package main

import "github.com/anantraj07/gold-analysis-project/cmd"

func main() {
	cmd.Execute()
}
