// Package reddit decodes Reddit API responses into a typed model and talks to the upstream API.
//
// # Decoding Model
//
// Every upstream response is a [Thing]: a kind tag plus a payload. Two kinds are modeled:
//   - [KindPost] ("t3") decodes to [Post]
//   - [KindListing] ("Listing") decodes to [Listing]
//
// Any other kind decodes to an unknown [Thing] that keeps its tag and drops its payload,
// so a listing with one odd child still yields every other child in order.
//
// Field shapes differ between response contexts. Decoding accepts:
//   - absent keys and explicit nulls are both "no value"
//   - [Source] accepts url/width/height and the short u/x/y aliases
//   - [SourceSet] accepts source/resolutions and s/p
//   - a [Post] carries at most one content block, chosen by field presence (preview, then gallery, then selftext)
//   - a broken gallery media entry is kept with its error instead of failing the post
//
// Failures are reported as [*DecodeError], which carries the JSON path of the offending value
// and unwraps to [shared.ErrDecodeSyntax] or [shared.ErrDecodeSchema].
//
// # Client
//
// [Client] fetches listings. Requests with an access token go to the OAuth API host with a bearer
// header, anonymous requests go to the public host. Every request carries the configured user agent.
//
// [NewHTTPClient] builds the shared outbound [http.Client]: bounded timeout, optional SOCKS5 proxy,
// user agent injection and Prometheus instrumentation.
package reddit
