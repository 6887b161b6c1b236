package main

import "github.com/user/netcfg-audit/cmd"

func main() {
	cmd.Execute()
}
