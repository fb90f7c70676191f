/*
Package asciify converts images into styled terminal text by delegating the
pixel-to-glyph rendering to an external converter process and reusing
previously computed results through a content-keyed cache.

# Overview

asciify accepts an image as raw bytes, a local file path, or a remote URL,
normalizes it into a single converter-ready file, invokes the converter with
a structured argument vector, and decodes the captured ANSI output into a
sequence of styled text runs suitable for display or persistence.

# Core Architecture

The pipeline runs in fixed stages:

  - validation of options and converter binary presence, before any I/O
  - cache probe keyed on the source's logical identity (xxHash by default)
  - materialization of bytes/URL sources into a temporary local file
  - converter invocation under a forced true-color environment
  - decoding of SGR escape sequences into styled runs
  - insert-if-absent cache insertion and unconditional temp cleanup

Cache keys derive from logical identity only: the hash of the payload for
byte sources, of the URL string for remote sources, and of the cleaned path
string for file sources. The cache never overwrites; the first artifact
computed for a key wins. Concurrent conversions for the same key share one
computation.

# Basic Usage

Creating a converter and converting a file:

	conv := asciify.New()

	opts := asciify.DefaultOptions()
	opts.Color = true
	opts.Width = 80

	art, err := conv.Convert(ctx, asciify.Path("gopher.png"), opts)
	if err != nil {
	    log.Fatalf("conversion failed: %v", err)
	}
	fmt.Print(art.ANSI())

Converting raw bytes with Braille glyphs:

	opts := asciify.DefaultRenderOptions()
	art, err := conv.Convert(ctx, asciify.Bytes(payload), opts)

A second call with the same payload returns the cached artifact without
spawning the converter.

# Testing Seams

The filesystem (afero), hash function, clock, HTTP client, process runner
and binary lookup are all injectable through options, so the whole pipeline
is testable in memory without a real converter binary or network.
*/
package asciify
