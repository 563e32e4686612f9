package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL combines a base URL with a database name and defaults
// sslmode to disable. An empty database name returns the base URL unchanged.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || parsed.Scheme == "" {
		// Not a URL we understand; append naively so pgx reports the real problem
		return strings.TrimRight(baseURL, "/") + "/" + databaseName
	}

	parsed.Path = "/" + databaseName

	query := parsed.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
