// Package crawler implements the snapshot pipeline: fetch, classify,
// normalize and persist a fixed set of tracked URLs so that successive
// runs produce byte-stable output unless the upstream content changed.
package crawler
