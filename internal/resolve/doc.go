// Package resolve classifies posts into fetchable media items.
//
// The Resolver takes one enumerated post and produces zero or more
// ResolvedItems, following whatever indirection the media host requires.
// Classification order, first match wins:
//
//  1. Direct file URL (.jpg/.gif/.png)  → one item, kind by extension
//  2. .gifv URL                         → fetch page, extract the real mp4
//  3. Gallery post                      → one image item per completed entry
//  4. Platform-hosted video (v.redd.it) → crosspost descriptor, else the
//     permalink JSON fallback
//  5. Anything else                     → external link, yielded nothing
//
// Network lookups run under the retry policy; failures abandon the post and
// are reported through the Reporter, never returned as errors. The JSON
// fallback path honors explicit rate limiting with a long cooldown before
// retrying the same request.
package resolve
