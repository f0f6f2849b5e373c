package main

import (
	"linctl/internal/client"
	"linctl/internal/config"
)

func withClient(cfg *config.Config, fn func(*client.Client) error) error {
	c, err := client.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
