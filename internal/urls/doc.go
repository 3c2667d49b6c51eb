// Package urls provides centralized constants for the documentation URLs
// shown in troubleshooting hints and help output.
//
// Usage:
//
//	import "github.com/muurk/tr064-debug/internal/urls"
//
//	fmt.Printf("Service documentation: %s\n", urls.AVMInterfaces)
package urls
