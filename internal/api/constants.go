package api

// MaxCodesLength bounds the multi-code text accepted in one request. It must
// match the max tags on the request bodies.
const MaxCodesLength = 16 << 10

// Cache-Control header values.
const (
	CacheOneDay  = "public, max-age=86400, immutable"
	CacheNoStore = "no-store"
)
