/*
Copyright © 2025 jesse galley <jesse@jessegalley.net>
*/
package main

import (
	"blkbench/cmd"
)

func main() {
	cmd.Execute()
}
