// Copyright © 2023 EcoSwell

package main

import "github.com/EcoSwell/RaspberryPi-Sensor/cmd"

func main() {
	cmd.Execute()
}
