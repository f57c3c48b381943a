// Package main provides the entry point for the wayfind CLI.
//
// Wayfind is a retrieval engine that walks connected sources: it crawls
// web sites by following links, walks directory trees, and pages through
// SQL query results, yielding every fetched document along the way.
//
// Usage:
//
//	wayfind crawl <url>
//	wayfind walk <directory>
//	wayfind query <database> --query <sql>
//
// See --help for all available options.
package main

// main is the entry point for wayfind.
func main() {
	Execute()
}
