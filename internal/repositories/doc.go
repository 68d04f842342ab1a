// Package repositories implements SQLite persistence for the media cache.
//
// [SongCacheRepository] indexes downloaded songs by video id. The audio itself lives
// in the cache directory; rows point at it by path. Callers that remove rows
// ([SongCacheRepository.Delete], [SongCacheRepository.Prune]) are responsible for
// removing the files.
package repositories
