// Package textutil sanitizes names used for exported files.
package textutil
