package dispatcher

import (
	"crypto/tls"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
)

// HTTPPool round-robins REST calls across a small set of warmed-up fasthttp
// clients so a slow call never serializes everything behind one connection.
type HTTPPool struct {
	clients []*fasthttp.Client
	index   atomic.Uint32
}

func NewHTTPPool(size int) *HTTPPool {
	if size < 1 {
		size = 1
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ClientSessionCache: tls.NewLRUClientSessionCache(64),
	}

	clients := make([]*fasthttp.Client, size)
	for i := range clients {
		clients[i] = &fasthttp.Client{
			MaxConnsPerHost:           128,
			MaxIdleConnDuration:       90 * time.Second,
			ReadTimeout:               5 * time.Second,
			WriteTimeout:              5 * time.Second,
			MaxResponseBodySize:       1 << 20,
			MaxIdemponentCallAttempts: 1,
			DialDualStack:             true,
			TLSConfig:                 tlsConfig,
		}
	}

	return &HTTPPool{clients: clients}
}

func (p *HTTPPool) Client() *fasthttp.Client {
	n := p.index.Add(1)
	return p.clients[int(n)%len(p.clients)]
}

// Warmup primes TLS sessions against the API host so the first real call
// does not pay the handshake.
func (p *HTTPPool) Warmup(baseURL string) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(baseURL + "/gateway")
	req.Header.SetMethod(fasthttp.MethodGet)

	for _, c := range p.clients {
		c.DoTimeout(req, resp, 2*time.Second)
	}
}
