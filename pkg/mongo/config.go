package mongo

import "time"

// ClientOption configures Client.
type ClientOption func(*ClientConfig)

// ClientConfig holds MongoDB client configuration.
type ClientConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
	MaxPoolSize    uint64
}

// WithURI sets the connection string.
func WithURI(uri string) ClientOption {
	return func(c *ClientConfig) {
		c.URI = uri
	}
}

// WithDatabase sets the database name.
func WithDatabase(db string) ClientOption {
	return func(c *ClientConfig) {
		c.Database = db
	}
}

// WithTimeouts sets connect and default query timeouts.
func WithTimeouts(connect, query time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.ConnectTimeout = connect
		c.QueryTimeout = query
	}
}

// WithMaxPoolSize sets the connection pool size.
func WithMaxPoolSize(n uint64) ClientOption {
	return func(c *ClientConfig) {
		c.MaxPoolSize = n
	}
}
