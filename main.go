package main

import "github.com/theirongolddev/kharcha/cmd"

func main() {
	cmd.Execute()
}
