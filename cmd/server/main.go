package main

import "github.com/eleven-am/gallery-backend/internal/bootstrap"

func main() {
	bootstrap.Run()
}
