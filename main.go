package main

import "github.com/harborseal/harborseal/cmd"

func main() {
	cmd.Execute()
}
