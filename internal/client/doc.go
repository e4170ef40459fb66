// Package client implements the HTTP transport layer for the generation
// backend. It submits project creation, shot regeneration, and video
// compilation jobs and polls task status, delivering every outcome
// asynchronously through a Handler callback together with the correlation
// metadata of the originating request.
package client
