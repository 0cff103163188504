// Command mapperscript checks and evaluates MapperScript playlist-rewrite
// scripts from the shell.
package main

import "github.com/tuliprox/mapperscript/cmd"

func main() {
	cmd.Execute()
}
