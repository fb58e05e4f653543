// Package notion provides a small, typed client for the Notion REST API.
//
// The client covers the page-level operations the tools in this repository
// need:
//   - Reading a page's block children and flattening their rich text
//   - Listing the child pages of a page
//   - Appending a heading and a paragraph to a page
//   - Searching the workspace
//
// Every request is rate limited (3 req/sec by default) and retried with capped
// exponential backoff on 429 and 5xx responses.
package notion
