package main

import (
	"context"
	"os"
	c "ticketing-marketplace-backend/context"
	"ticketing-marketplace-backend/logger"
)

const defaultCorrelationID = "00000000.00000000"

var ctx context.Context

func init() {
	ctx = c.SetContextWithValue(context.Background(), c.ContextKeyCorrelationID, defaultCorrelationID)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf(ctx, "main: %+v", err)
		os.Exit(1)
	}
}
