package util

import (
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipDB        *geoip2.Reader
	geoipCache     *cache.Cache
	geoipCacheHits int64
	geoipCacheMiss int64
)

// IPLocation holds the resolved city and country for an IP address.
type IPLocation struct {
	City    string
	Country string
}

// InitGeoIP initializes the local GeoIP2 database reader and an in-memory cache.
// Provide the path to a GeoIP2/GeoLite2 .mmdb file via `dbPath`.
// If dbPath is empty or the file cannot be opened, initialization is a no-op.
func InitGeoIP(dbPath string) error {
	// Allow callers to pass dbPath or fall back to env var
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipDB = r
	// Cache entries for 24h, purge every hour
	geoipCache = cache.New(24*time.Hour, 1*time.Hour)
	return nil
}

// CloseGeoIP closes the GeoIP DB if opened.
func CloseGeoIP() {
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
}

// GetIPLocation returns the city and country name for the provided IP using
// the local GeoIP database with an in-memory cache. Returns a zero IPLocation
// when a lookup is not available.
func GetIPLocation(ip string) IPLocation {
	if ip == "" {
		return IPLocation{}
	}

	// Skip common private/local ranges quickly
	if ip == "127.0.0.1" || ip == "::1" ||
		(len(ip) >= 4 && ip[:4] == "10.") ||
		(len(ip) >= 8 && ip[:8] == "192.168") ||
		(len(ip) >= 2 && ip[:2] == "::") {
		return IPLocation{}
	}

	if geoipCache != nil {
		if v, ok := geoipCache.Get(ip); ok {
			atomic.AddInt64(&geoipCacheHits, 1)
			if loc, ok := v.(IPLocation); ok {
				return loc
			}
		}
	}
	atomic.AddInt64(&geoipCacheMiss, 1)

	if geoipDB == nil {
		return IPLocation{}
	}

	netip := net.ParseIP(ip)
	if netip == nil {
		return IPLocation{}
	}

	rec, err := geoipDB.City(netip)
	if err != nil {
		return IPLocation{}
	}

	var loc IPLocation
	if rec.City.Names != nil {
		if v, ok := rec.City.Names["en"]; ok {
			loc.City = v
		}
	}
	if rec.Country.Names != nil {
		if v, ok := rec.Country.Names["en"]; ok {
			loc.Country = v
		}
	}
	if loc.Country == "" {
		loc.Country = rec.Country.IsoCode
	}

	if geoipCache != nil {
		geoipCache.Set(ip, loc, cache.DefaultExpiration)
	}

	return loc
}

// GetGeoIPCacheMetrics returns the cache hits and misses and current cache size.
func GetGeoIPCacheMetrics() (hits int64, misses int64, size int) {
	hits = atomic.LoadInt64(&geoipCacheHits)
	misses = atomic.LoadInt64(&geoipCacheMiss)
	if geoipCache != nil {
		size = geoipCache.ItemCount()
	}
	return hits, misses, size
}
