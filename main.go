package main

import "github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/cmd"

func main() {
	cmd.Execute()
}
