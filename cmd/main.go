package main

import (
	"log"

	"github.com/ryanlai666/Meat-Cut/config"
	"github.com/ryanlai666/Meat-Cut/routes"
	"github.com/ryanlai666/Meat-Cut/utils"
)

func main() {
	config.InitDB()
	config.InitRedis()
	utils.InitMailer()

	store, err := utils.NewS3AssetStore()
	if err != nil {
		log.Fatalf("S3 init failed: %v", err)
	}

	r := routes.SetupRouter(store)
	r.Run(":8080")
}
