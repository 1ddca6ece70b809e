// Package pkg provides the core libraries for licensetree.
//
// The pkg directory is organized by stage:
//
//  1. [scan] - Recursive traversal of a package tree and license text resolution
//  2. [report] - Aggregation of scan records into text, JSON, and tree reports
//  3. [render/nodelink] - Graphviz node-link rendering of the scanned tree
//  4. [cache] - Resolution caching (file and Redis backends)
//  5. [errors] - Structured error codes shared across stages
//
// The typical data flow:
//
//	package directory
//	         ↓
//	    [scan] package (walk node_modules, resolve license text)
//	         ↓
//	    [report] package (sort, classify, render)
//	         ↓
//	    text/JSON/tree/DOT output
package pkg
