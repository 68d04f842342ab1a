// Package services implements the network clients used by the server: [YTMusicService] for the
// catalogue and [MediaService] for audio downloads.
//
// # Catalogue
//
// [YTMusicService] posts to the InnerTube endpoints behind music.youtube.com
// (search, music/get_search_suggestions and browse) and picks the few fields the
// browser shows out of each response with gjson. Every request waits on a
// [rate.Limiter] first.
//
// Requests are sent unauthenticated unless one of two credentials is attached:
//   - browser headers captured with `ytui setup headers`, which add a SAPISIDHASH
//     Authorization header computed per request
//   - an OAuth token from the device flow in `ytui setup oauth`; the [oauth2] client
//     refreshes it and [FileTokenSource] persists the refreshed token
//
// # Media
//
// [MediaService] streams audio bytes for a video id from the local media proxy and
// reports progress while reading.
//
// # Error Handling
//
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrUnexpectedAPI] : response did not have the expected shape
//   - [shared.ErrNotFound] : an id resolved to nothing
package services
