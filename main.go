package main

import "github.com/packfetch/pypi-mirror/cmd"

var version = "develop"

func main() {
	cmd.Execute(version)
}
