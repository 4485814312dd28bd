package main

import "github.com/frahmantamala/calong-tick/cmd"

func main() {
	cmd.Execute()
}
