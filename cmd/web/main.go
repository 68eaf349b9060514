package main

import "jobconnect_backend/internal/app"

func main() {
	app.Run()
}
