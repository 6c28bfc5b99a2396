package main

import "lesson-reconciler/cmd"

func main() {
	cmd.Execute()
}
