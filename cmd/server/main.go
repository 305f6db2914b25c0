package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/krishisahayak/internal/server"
	"github.com/dmitrijs2005/krishisahayak/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {

	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}

// run starts the API and blocks until it stops. Any error means the process
// did not start or did not stop cleanly.
func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return err
	}

	return app.Run(ctx)
}
