// Command sdsim runs the suicidal mind model with optional scenario events.
package main

import "github.com/sarchlab/stockflow/sdsim/cmd"

func main() {
	cmd.Execute()
}
