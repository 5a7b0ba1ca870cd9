package main

import "github.com/derekdreery/lockfile/cmd"

func main() {
	cmd.Execute()
}
