package main

import "github.com/theirongolddev/spendview/cmd"

func main() {
	cmd.Execute()
}
