package app

import (
	"fmt"
	"strings"
)

// FirstProductID returns the first id of a comma-separated products list. Only one product
// is ever checked out; the remaining ids are ignored.
func FirstProductID(products string) string {
	first, _, _ := strings.Cut(products, ",")
	return first
}

// SuccessURL returns the configured override, or the root of the host the request came in on.
func SuccessURL(override, host string) string {
	if override != "" {
		return override
	}
	return fmt.Sprintf("http://%s/", host)
}
