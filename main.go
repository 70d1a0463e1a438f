package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/raffle-web/cmd/app"
)

// @title           Raffle API
// @version         1.0
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token, the same JWT that is stored in the session cookie.
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
