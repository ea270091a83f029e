package client

import (
	"context"

	"lodgera/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Client bundles the datastore handles a service needs: Mongo for the
// document side (hotels, reservations, notifications) and Postgres for the
// payment ledger. Services only set the handles they use.
type Client struct {
	Mongo    *mongo.Client
	Postgres *gorm.DB
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(context.Background()); err != nil {
			log.Error("Failed to disconnect MongoDB client", "error", err)
		}
	}
	if c.Postgres != nil {
		if sqlDB, err := c.Postgres.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("Failed to close Postgres connection pool", "error", err)
			}
		}
	}
}
