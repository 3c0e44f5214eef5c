// Package build runs the site pipeline: areas from the site configuration are
// enumerated into content nodes, nested into forests, given their front
// matter, then rendered or copied by a bounded pool of workers. A full build
// finishes with the sitemap and, optionally, output validation.
//
// Per-file failures are collected in the build's error report and never stop
// sibling tasks. Failures that make the whole build meaningless (no template
// set, a missing content root) abort it with a classified error.
package build
