package utils

import (
	"net/url"
)

// IsValidUrl tests a string to determine if it is a well-structured url or not.
func IsValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// IsHTTPUrl is IsValidUrl restricted to the http and https schemes.
func IsHTTPUrl(toTest string) bool {
	if !IsValidUrl(toTest) {
		return false
	}
	u, _ := url.Parse(toTest)
	return u.Scheme == "http" || u.Scheme == "https"
}
