// Package ioutils provides file system and image utilities for subreddit-dl.
//
// This package contains functions for:
//   - File writing
//   - Filename sanitization
//   - Directory creation
//   - Optional post-processing of downloaded images (resize, JPEG convert)
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils
