package qdrantdb

import (
	"github.com/qdrant/go-client/qdrant"
)

type NewsClient struct {
	Client *qdrant.Client
}

func NewClient(host string, port int) (*NewsClient, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port, // gRPC port
	})
	if err != nil {
		return nil, err
	}
	return &NewsClient{Client: client}, nil
}
