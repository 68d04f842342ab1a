// Package models defines the catalogue entities exchanged between the catalogue client,
// the server workers and the terminal UI, plus the persisted media cache entry.
//
// Catalogue DTOs:
//   - [Artist] : an artist search result
//   - [SearchSuggestion] : a suggestion made of bold/plain [TextRun]s
//   - [ArtistPage] : an artist with the browse parameters of its album shelf
//   - [AlbumRef] / [Album] : album listings and album contents
//   - [Song] : a playable track
//
// Persistent entities:
//   - [CachedSong] : a downloaded song stored in the local media cache
//
// Cache rows implement [Record]; [Repository] defines the CRUD surface.
package models
