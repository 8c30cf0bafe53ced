package main

import (
	"log"

	"funnelboard/adapters/excel"
	"funnelboard/internal"
	"funnelboard/internal/config"
	"funnelboard/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	gin.SetMode(appConfig.Server.GinMode)

	excelConfig := excel.DefaultExcelConfig(appConfig.Data.ExcelFile)
	excelConfig.Sheet = appConfig.Data.Sheet
	logger.Info("Using Excel data source: %s", excelConfig.FilePath)

	// The dashboard never serves a dataset that failed to load
	dataset, err := excel.LoadDataset(excelConfig)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	logger.Info("Loaded %d opportunities", dataset.Len())

	server, err := ui.NewServer(dataset, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Fatal(server.Start(appConfig.Server.Addr()))
}
