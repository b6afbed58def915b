package researchapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAPIURL  = "http://localhost:8000/api"
	DefaultTimeout = 15 * time.Second
	userAgent      = "spigell/research-matcher"
	// Upper bound for following `next` links of a paginated listing.
	maxPages = 50
)

// RequestObserver receives the outcome and latency of every API call.
type RequestObserver interface {
	ObserveRequest(endpoint, outcome string, elapsed time.Duration)
}

// Client talks to the research matching REST API. It is safe for concurrent use.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	Observer   RequestObserver
}

// New returns a client with the default API URL and request timeout.
// The token is optional; when set it is sent as a bearer token.
func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		APIURL: DefaultAPIURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}
