package main

import "scholarhub_backend/internal/app"

func main() {
	app.Run()
}
