package safe

import (
	"fmt"
	"net/http"
	"time"
)

// Client talks to a Safe Transaction Service instance
type Client struct {
	serviceURL string
	httpClient *http.Client
}

// NewClient creates a client for the canonical transaction service of the
// given chain
func NewClient(chainID uint64) (*Client, error) {
	serviceURL, ok := TransactionServiceURLs[chainID]
	if !ok {
		return nil, fmt.Errorf("no safe transaction service known for chain ID %d", chainID)
	}
	return NewClientWithURL(serviceURL), nil
}

// NewClientWithURL creates a client against an explicit service URL
func NewClientWithURL(serviceURL string) *Client {
	return &Client{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}
