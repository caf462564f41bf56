// Package host serves the DOM shim's bridge from an in-process HTML document.
//
// The document is parsed with goquery. CSS selectors are compiled with
// cascadia, selectors starting with "xpath:" go through htmlquery, and HTML
// written through innerHTML can be run through a bluemonday policy first.
//
// Handles are issued lazily the first time a node is returned by a query and
// stay stable for the life of the Document, including after the node is
// detached by a later innerHTML write.
package host
