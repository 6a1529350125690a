// Package fileutil reads source documents and writes exports atomically.
package fileutil
