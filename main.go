package main

import (
	"loc8r/internal/bootstrap"
)

func main() {
	bootstrap.NewApp().Run()
}
